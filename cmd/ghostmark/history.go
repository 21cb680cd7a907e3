package ghostmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/audit"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scans of a tree, newest first",
		RunE:  runHistory,
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "scan root")
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most this many scans (0 = all)")

	del := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete one history entry (0 is the newest)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			abs, err := filepath.Abs(flagPath)
			if err != nil {
				return err
			}
			if err := audit.New(abs).Delete(i); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", i)
			return nil
		},
	}
	del.Flags().StringVarP(&flagPath, "path", "p", ".", "scan root")
	cmd.AddCommand(del)
	rootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	records, err := audit.New(abs).History()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
		records = records[:flagHistoryLimit]
	}

	if flagJSON {
		if records == nil {
			records = []audit.ScanRecord{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		_, _ = fmt.Fprintln(out, "No scan history yet")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("#", "When", "Rev", "Files", "Findings", "New", "High", "Medium", "Low", "Took")
	for i, r := range records {
		rev := r.Revision
		if rev == "" {
			rev = "worktree"
		}
		_ = table.Append([]string{
			strconv.Itoa(i),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rev,
			strconv.Itoa(r.FilesScanned),
			strconv.Itoa(r.TotalFindings),
			strconv.Itoa(r.NewFindings),
			strconv.Itoa(r.SeverityCounts["high"]),
			strconv.Itoa(r.SeverityCounts["medium"]),
			strconv.Itoa(r.SeverityCounts["low"]),
			r.Duration,
		})
	}
	return table.Render()
}
