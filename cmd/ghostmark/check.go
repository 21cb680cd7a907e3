package ghostmark

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/report"
	"github.com/varalys/ghostmark/internal/types"
)

var flagStdinName string

func init() {
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Check stdin or the given files; exit 1 when invisible characters are present",
		Example: `  git diff | ghostmark check
  ghostmark check README.md docs/*.md
  pbpaste | ghostmark check --stdin-name notes.txt --json`,
		RunE: runCheck,
	}
	cmd.Flags().StringVar(&flagStdinName, "stdin-name", "<stdin>", "document name used for stdin when matching excluded suffixes")
	rootCmd.AddCommand(cmd)
}

// document is one input to check or clean.
type document struct {
	name string
	text string
}

// readDocuments reads each path, or stdin when no paths are given.
func readDocuments(cmd *cobra.Command, args []string) ([]document, error) {
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []document{{name: flagStdinName, text: string(b)}}, nil
	}
	docs := make([]document, 0, len(args))
	for _, p := range args {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, document{name: filepath.ToSlash(p), text: string(b)})
	}
	return docs, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cwd, _ := os.Getwd()
	lcfg, gcfg := loadConfigs(cwd)
	opts := resolveOptions(cmd, lcfg, gcfg)
	stdout := cmd.OutOrStdout()

	if !opts.Enabled {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "ghostmark is disabled; run 'ghostmark enable' to turn it back on")
		return nil
	}

	docs, err := readDocuments(cmd, args)
	if err != nil {
		return err
	}
	findings := []types.Finding{}
	skipped := 0
	for _, d := range docs {
		if opts.Excludes(d.name) {
			skipped++
			logger.Debug("excluded by suffix", "name", d.name)
			continue
		}
		matches := engine.Inspect(engine.Document{Name: d.name, Text: d.text}, opts)
		findings = append(findings, engine.BuildFindings(d.name, d.text, matches, opts.Formatter())...)
	}

	popts := report.PrintOptions{
		NoColor:      noColor(stdout, lcfg, gcfg),
		FilesScanned: len(docs) - skipped,
		FilesSkipped: skipped,
	}
	switch {
	case flagSARIF:
		meta := report.SARIFMeta{Version: currentVersion(), Stats: map[string]int{"filesScanned": popts.FilesScanned, "findings": len(findings)}}
		if err := report.WriteSARIF(stdout, findings, meta); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := report.WriteJSON(stdout, findings, popts); err != nil {
			return err
		}
	case flagTable:
		report.PrintTable(stdout, findings, popts)
	default:
		report.PrintText(stdout, findings, popts)
	}

	if len(findings) == 0 {
		return nil
	}
	if flagFailOn != "" && !report.ShouldFail(findings, flagFailOn) {
		return nil
	}
	return errFindings
}
