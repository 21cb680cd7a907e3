package ghostmark

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var path string
	update := &cobra.Command{
		Use:   "update",
		Short: "Record every current finding so later scans only report new ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			cfg, _, _ := scanConfig(cmd, abs)
			// a baseline must see every file, not just the ones that changed
			cfg.NoCache = true
			results, err := engine.Scan(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(baselinePath(abs, flagBaseline), results); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated (%d findings).\n", len(results))
			return nil
		},
	}
	update.Flags().StringVarP(&path, "path", "p", ".", "path to scan")
	update.Flags().StringVar(&flagBaseline, "baseline", baselineFile, "baseline file to write")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
