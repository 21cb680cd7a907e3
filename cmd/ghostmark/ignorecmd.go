package ghostmark

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/ignore"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ignore <pattern>...",
		Short: "Add glob patterns to .ghostmarkignore",
		Example: `  ghostmark ignore testdata/
  ghostmark ignore "**/*.golden" "*.snap"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(flagPath)
			if err != nil {
				return err
			}
			file := filepath.Join(abs, ignore.FileName)
			for _, p := range args {
				added, err := ignore.Append(file, p)
				if err != nil {
					return err
				}
				if added {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", p)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s already ignored\n", p)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "scan root holding the ignore file")
	rootCmd.AddCommand(cmd)
}
