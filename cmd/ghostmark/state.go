package ghostmark

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/state"
)

func init() {
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Turn invisible character inspection on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setEnabled(cmd, true)
		},
	}
	disable := &cobra.Command{
		Use:   "disable",
		Short: "Turn invisible character inspection off (scans and checks become no-ops)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setEnabled(cmd, false)
		},
	}
	status := &cobra.Command{
		Use:   "status",
		Short: "Show the effective enable flag, marker mode and excluded suffixes",
		RunE:  runStatus,
	}
	rootCmd.AddCommand(enable, disable, status)
}

func setEnabled(cmd *cobra.Command, v bool) error {
	if _, err := state.SetEnabled(v); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	word := "disabled"
	if v {
		word = "enabled"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ghostmark %s\n", word)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cwd, _ := os.Getwd()
	lcfg, gcfg := loadConfigs(cwd)
	opts := resolveOptions(cmd, lcfg, gcfg)
	out := cmd.OutOrStdout()

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	marker := "code point (U+XXXX)"
	if opts.UseByteMarker {
		marker = "byte (lossy)"
	}
	suffixes := "(none)"
	if len(opts.ExcludedSuffixes) > 0 {
		suffixes = strings.Join(opts.ExcludedSuffixes, ", ")
	}
	_, _ = fmt.Fprintf(out, "enabled:           %s\n", onOff(opts.Enabled))
	_, _ = fmt.Fprintf(out, "marker:            %s\n", marker)
	_, _ = fmt.Fprintf(out, "excluded suffixes: %s\n", suffixes)
	if st := state.Load(); st.Enabled != opts.Enabled {
		_, _ = fmt.Fprintln(out, "note: a config file overrides the saved enable flag")
	}
	return nil
}
