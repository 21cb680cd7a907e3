package ghostmark

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/logging"
)

var (
	flagJSON            bool
	flagSARIF           bool
	flagTable           bool
	flagThreads         int
	flagFailOn          string
	flagNoColor         bool
	flagByteMarker      bool
	flagExcludeSuffix   string
	flagNoCache         bool
	flagDefaultExcludes bool
	flagNoUpdateCheck   bool
	flagLogLevel        string
	flagLogFormat       string

	version = "0.1.0"

	logger = logging.Discard()
)

// errFindings is returned by commands that completed normally but found
// invisible characters the caller asked to fail on. Execute maps it to exit
// status 1 without printing anything.
var errFindings = errors.New("invisible characters found")

// rootCmd is the base Cobra command for the ghostmark CLI.
var rootCmd = &cobra.Command{
	Use:   "ghostmark",
	Short: "Find invisible Unicode characters in text",
	Long: "ghostmark finds zero-width, bidi-control, filler and other invisible or deceptive\n" +
		"Unicode code points in files, revisions and piped text, and replaces them with\n" +
		"visible markers such as U+200B.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(flagLogFormat)
		if err != nil {
			return err
		}
		logger = logging.New(cmd.ErrOrStderr(), level, format)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the ghostmark CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output in table format with borders (default for scan)")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "minimum severity that fails: low|medium|high (default medium)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagByteMarker, "byte-marker", false, "use lossy two-hex-digit markers instead of U+XXXX")
	rootCmd.PersistentFlags().StringVar(&flagExcludeSuffix, "exclude-suffix", "", "comma-separated document name suffixes to leave alone")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (node_modules, dist, images, etc.)")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format: text|json")
}
