package ghostmark

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/audit"
	"github.com/varalys/ghostmark/internal/cache"
	"github.com/varalys/ghostmark/internal/config"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/git"
	"github.com/varalys/ghostmark/internal/report"
	"github.com/varalys/ghostmark/internal/types"
	"github.com/varalys/ghostmark/internal/update"
)

const (
	defaultMaxBytes = 1 << 20
	baselineFile    = "ghostmark.baseline.json"
)

var (
	flagPath     string
	flagRev      string
	flagInclude  string
	flagExclude  string
	flagMaxBytes int64
	flagText     bool
	flagFail     bool
	flagBaseline string
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan files for invisible characters",
		Example: `  ghostmark scan
  ghostmark scan -p src --include "**/*.go,**/*.md" --fail
  ghostmark scan --rev HEAD~1 --sarif > ghostmark.sarif`,
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().StringVar(&flagRev, "rev", "", "scan a git revision (e.g. HEAD, main, a commit) instead of the working tree")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1 MiB)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().BoolVar(&flagFail, "fail", false, "exit 1 when findings at or above --fail-on remain")
	cmd.Flags().StringVar(&flagBaseline, "baseline", baselineFile, "baseline file; findings recorded there are not reported")
}

// scanConfig resolves an engine.Config for root from flags and config files.
func scanConfig(cmd *cobra.Command, root string) (engine.Config, config.FileConfig, config.FileConfig) {
	lcfg, gcfg := loadConfigs(root)
	maxBytes := pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes)
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	defaultExcludes := flagDefaultExcludes
	if !cmd.Flags().Changed("default-excludes") {
		if lcfg.DefaultExcludes != nil {
			defaultExcludes = *lcfg.DefaultExcludes
		} else if gcfg.DefaultExcludes != nil {
			defaultExcludes = *gcfg.DefaultExcludes
		}
	}
	cfg := engine.Config{
		Root:            root,
		IncludeGlobs:    pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:    pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:        maxBytes,
		Threads:         pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		DefaultExcludes: defaultExcludes,
		NoCache:         flagNoCache,
		Options:         resolveOptions(cmd, lcfg, gcfg),
		Logger:          logger,
	}
	return cfg, lcfg, gcfg
}

func baselinePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func runScan(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}
	cfg, lcfg, gcfg := scanConfig(cmd, abs)
	cfg.Revision = flagRev
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if !cfg.Options.Enabled {
		_, _ = fmt.Fprintln(stderr, "ghostmark is disabled; run 'ghostmark enable' to turn it back on")
		return nil
	}

	// Friendly banner before scanning
	if !machineOutput() {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(currentVersion(), false); newer && latest != "" {
				_, _ = fmt.Fprintf(stderr, "(new version available: v%s)  run 'ghostmark update' to upgrade\n", latest)
			}
		}
		target := abs
		if cfg.Revision != "" {
			target = abs + "@" + cfg.Revision
		}
		_, _ = fmt.Fprintf(stderr, "Scanning %s for invisible characters...\n", target)
	}

	// Optional progress bar: simple textual bar
	total := 0
	if cfg.Revision == "" && !machineOutput() {
		total, _ = engine.CountTargets(cfg)
	}
	progressed := 0
	if total > 0 {
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}
	res, err := engine.ScanWithStats(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if total > 0 {
		_, _ = fmt.Fprintln(stderr)
	}

	if cfg.Revision == "" {
		if err := cache.SaveResults(abs, res.Findings); err != nil {
			logger.Warn("could not save scan results", "err", err)
		}
	}

	baseline, _ := report.LoadBaseline(baselinePath(abs, flagBaseline))
	newFindings := report.FilterNewFindings(res.Findings, baseline)
	if newFindings == nil {
		newFindings = []types.Finding{}
	} // no `null` in JSON

	rec := audit.NewRecord(abs, cfg.Revision, res.Findings, newFindings, res.FilesScanned, res.FilesSkipped, res.Duration)
	if err := audit.New(abs).Append(rec); err != nil {
		logger.Warn("could not record scan history", "err", err)
	}

	opts := report.PrintOptions{
		NoColor:      noColor(stdout, lcfg, gcfg),
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		FilesSkipped: res.FilesSkipped,
	}
	switch {
	case flagSARIF:
		meta := report.SARIFMeta{
			Version: currentVersion(),
			Stats: map[string]int{
				"filesScanned": res.FilesScanned,
				"filesSkipped": res.FilesSkipped,
				"findings":     len(newFindings),
				"baselined":    len(res.Findings) - len(newFindings),
			},
		}
		meta.Repo, meta.Commit, meta.Branch = git.RepoMetadata(abs)
		if err := report.WriteSARIF(stdout, newFindings, meta); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := report.WriteJSON(stdout, newFindings, opts); err != nil {
			return err
		}
	case flagText:
		report.PrintText(stdout, newFindings, opts)
	default:
		report.PrintTable(stdout, newFindings, opts)
	}

	if flagFail && report.ShouldFail(newFindings, pickString(flagFailOn, lcfg.FailOn, gcfg.FailOn)) {
		return errFindings
	}
	return nil
}

