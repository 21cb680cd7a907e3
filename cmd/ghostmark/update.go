package ghostmark

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/update"
)

func init() {
	upd := &cobra.Command{
		Use:   "update",
		Short: "Update ghostmark to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			latest, err := update.SelfUpdate(currentVersion())
			if err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			if latest == currentVersion() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ghostmark v%s is already the latest release\n", latest)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated to v%s; re-run your command\n", latest)
			return nil
		},
	}
	ver := &cobra.Command{
		Use:   "version",
		Short: "Print the ghostmark version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "ghostmark v%s\n", currentVersion())
			if flagNoUpdateCheck {
				return nil
			}
			if latest, newer, _ := update.Check(currentVersion(), false); newer {
				_, _ = fmt.Fprintf(out, "new version available: v%s (run 'ghostmark update')\n", latest)
			}
			return nil
		},
	}
	rootCmd.AddCommand(upd, ver)
}

// currentVersion prefers a module version stamped by `go install` over the
// built-in default.
func currentVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return trimV(v)
		}
	}
	return version
}

func trimV(v string) string {
	if len(v) > 0 && v[0] == 'v' {
		return v[1:]
	}
	return v
}
