package ghostmark

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/cache"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/rewrite"
	"github.com/varalys/ghostmark/internal/state"
	"github.com/varalys/ghostmark/internal/tui"
	"github.com/varalys/ghostmark/internal/types"
	"golang.org/x/term"
)

var flagRescan bool

func init() {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review findings interactively and clean files from the terminal UI",
		Long: "Opens the findings of the last scan (or a fresh scan when none is saved)\n" +
			"in an interactive viewer with keys to clean files, copy markers and toggle settings.",
		RunE: runReview,
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to review")
	cmd.Flags().BoolVar(&flagRescan, "rescan", false, "scan again instead of loading the last results")
	rootCmd.AddCommand(cmd)
}

// reviewActions wires the review screen to the engine for root.
func reviewActions(cmd *cobra.Command, cfg engine.Config) tui.Actions {
	root := cfg.Root
	return tui.Actions{
		Rescan: func() ([]types.Finding, error) {
			fs, err := engine.Scan(cmd.Context(), cfg)
			if err != nil {
				return nil, err
			}
			if err := cache.SaveResults(root, fs); err != nil {
				logger.Warn("could not save scan results", "err", err)
			}
			return fs, nil
		},
		Clean: func(path string, f invisible.Formatter) (rewrite.Outcome, error) {
			return rewrite.Apply(filepath.Join(root, filepath.FromSlash(path)), f)
		},
		Source: func(path string) (string, error) {
			b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
			return string(b), err
		},
	}
}

func runReview(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("review needs an interactive terminal; use 'ghostmark scan' instead")
	}
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}
	cfg, _, _ := scanConfig(cmd, abs)
	// files with findings are never cached, so a warm cache still returns them all
	actions := reviewActions(cmd, cfg)

	var findings []types.Finding
	results, err := cache.LoadResults(abs)
	if err != nil || flagRescan {
		if findings, err = actions.Rescan(); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
	} else {
		findings = results.Findings
		logger.Debug("loaded last scan", "root", results.Root, "at", results.Timestamp, "count", results.Count)
	}

	prefs := state.State{Enabled: cfg.Options.Enabled, UseByteMarker: cfg.Options.UseByteMarker}
	return tui.Run(findings, prefs, actions)
}
