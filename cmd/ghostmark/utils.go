package ghostmark

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/config"
	"github.com/varalys/ghostmark/internal/state"
	"golang.org/x/term"
)

// loadConfigs returns the repo-local and global config files. Missing files
// yield zero values.
func loadConfigs(root string) (local, global config.FileConfig) {
	if c, err := config.LoadGlobal(); err == nil {
		global = c
	}
	if c, err := config.LoadLocal(root); err == nil {
		local = c
	}
	return local, global
}

// resolveOptions builds the inspection bundle. Precedence is CLI > local >
// global > persisted state > defaults.
func resolveOptions(cmd *cobra.Command, local, global config.FileConfig) config.Options {
	st := state.Load()
	opts := config.DefaultOptions()

	opts.Enabled = st.Enabled
	if global.Enabled != nil {
		opts.Enabled = *global.Enabled
	}
	if local.Enabled != nil {
		opts.Enabled = *local.Enabled
	}

	opts.UseByteMarker = st.UseByteMarker
	if global.UseByteMarker != nil {
		opts.UseByteMarker = *global.UseByteMarker
	}
	if local.UseByteMarker != nil {
		opts.UseByteMarker = *local.UseByteMarker
	}
	if cmd.Flags().Changed("byte-marker") {
		opts.UseByteMarker = flagByteMarker
	}

	opts.ExcludedSuffixes = config.Suffixes(local, global)
	if flagExcludeSuffix != "" {
		opts.ExcludedSuffixes = config.ParseSuffixes(flagExcludeSuffix)
	}
	return opts
}

// noColor reports whether styled output should be suppressed for w.
func noColor(w io.Writer, local, global config.FileConfig) bool {
	if pickBool(flagNoColor, local.NoColor, global.NoColor) || os.Getenv("NO_COLOR") != "" {
		return true
	}
	f, ok := w.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func machineOutput() bool { return flagJSON || flagSARIF }

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
