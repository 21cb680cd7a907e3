package ghostmark

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/rewrite"
)

var (
	flagCleanStdout bool
	flagCleanDryRun bool
	flagCleanCopy   bool

	// swapped in tests
	writeClipboard = clipboard.WriteAll
)

func init() {
	cmd := &cobra.Command{
		Use:   "clean [file...]",
		Short: "Replace invisible characters with visible markers",
		Long: "Replace invisible characters with visible markers.\n\n" +
			"With no files, stdin is cleaned to stdout. Files are rewritten in place\n" +
			"unless --stdout or --dry-run is given.",
		Example: `  ghostmark clean src/handler.go
  ghostmark clean --dry-run $(git ls-files '*.md')
  pbpaste | ghostmark clean --copy`,
		RunE: runClean,
	}
	cmd.Flags().BoolVar(&flagCleanStdout, "stdout", false, "write cleaned text to stdout instead of rewriting files")
	cmd.Flags().BoolVar(&flagCleanDryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVar(&flagCleanCopy, "copy", false, "copy the cleaned text to the clipboard")
	cmd.Flags().StringVar(&flagStdinName, "stdin-name", "<stdin>", "document name used for stdin when matching excluded suffixes")
	rootCmd.AddCommand(cmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cwd, _ := os.Getwd()
	lcfg, gcfg := loadConfigs(cwd)
	opts := resolveOptions(cmd, lcfg, gcfg)
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if !opts.Enabled {
		_, _ = fmt.Fprintln(stderr, "ghostmark is disabled; text is passed through unchanged")
	}

	if flagCleanDryRun {
		total := 0
		for _, p := range args {
			if !opts.Enabled || opts.Excludes(p) {
				continue
			}
			changed, n, err := rewrite.WouldChange(p)
			if err != nil {
				return err
			}
			if changed {
				total += n
				_, _ = fmt.Fprintf(stdout, "would clean %d characters in %s\n", n, p)
			}
		}
		_, _ = fmt.Fprintf(stdout, "%d characters would be replaced\n", total)
		return nil
	}

	if len(args) == 0 || flagCleanStdout {
		docs, err := readDocuments(cmd, args)
		if err != nil {
			return err
		}
		var copied string
		for _, d := range docs {
			matches := engine.Inspect(engine.Document{Name: d.name, Text: d.text}, opts)
			out, stats := invisible.CleanWithStats(d.text, matches, opts.Formatter())
			logger.Debug("cleaned document", "name", d.name, "replaced", stats.Replaced)
			_, _ = fmt.Fprint(stdout, out)
			copied += out
		}
		if flagCleanCopy {
			if err := writeClipboard(copied); err != nil {
				return fmt.Errorf("clipboard: %w", err)
			}
			_, _ = fmt.Fprintln(stderr, "copied cleaned text to clipboard")
		}
		return nil
	}

	cfg := engine.Config{Options: opts, Logger: logger}
	outcomes, err := engine.CleanFiles(cmd.Context(), cfg, args)
	if err != nil {
		return err
	}
	total := 0
	for _, o := range outcomes {
		if !o.Changed {
			continue
		}
		total += o.Stats.Replaced
		_, _ = fmt.Fprintf(stdout, "cleaned %d characters in %s\n", o.Stats.Replaced, o.Path)
	}
	_, _ = fmt.Fprintf(stdout, "%d characters replaced\n", total)
	if flagCleanCopy {
		_, _ = fmt.Fprintln(stderr, "--copy applies to stdout mode only")
	}
	return nil
}
