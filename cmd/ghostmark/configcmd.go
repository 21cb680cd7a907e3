package ghostmark

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/config"
	"gopkg.in/yaml.v3"
)

var (
	cfgOutput          string
	cfgForce           bool
	cfgByteMarker      bool
	cfgExcludeSuffixes string
	cfgInclude         string
	cfgExclude         string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgFailOn          string
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .ghostmark.yml with the selected options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".ghostmark.yml", "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&cfgByteMarker, "byte-marker", false, "use byte markers by default")
	initCmd.Flags().StringVar(&cfgExcludeSuffixes, "exclude-suffix", "", "comma-separated document suffixes to leave alone")
	initCmd.Flags().StringVar(&cfgInclude, "include", "", "comma-separated include globs")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated exclude globs")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", defaultMaxBytes, "skip files larger than this")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "medium", "minimum severity that fails: low|medium|high")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	switch cfgFailOn {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("invalid --fail-on %q (want low, medium or high)", cfgFailOn)
	}
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}

	fc := config.FileConfig{
		Enabled:          boolPtr(true),
		UseByteMarker:    boolPtr(cfgByteMarker),
		ExcludedSuffixes: config.ParseSuffixes(cfgExcludeSuffixes),
		Include:          optStrPtr(cfgInclude),
		Exclude:          optStrPtr(cfgExclude),
		MaxBytes:         int64Ptr(cfgMaxBytes),
		Threads:          intPtr(cfgThreads),
		NoColor:          boolPtr(cfgNoColor),
		DefaultExcludes:  boolPtr(cfgDefaultExcludes),
		FailOn:           optStrPtr(cfgFailOn),
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
