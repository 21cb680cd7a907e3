package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/varalys/ghostmark/internal/invisible"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for ghostmark.
type FileConfig struct {
	Enabled          *bool    `yaml:"enabled"`
	UseByteMarker    *bool    `yaml:"use_byte_marker"`
	ExcludedSuffixes []string `yaml:"excluded_suffixes,omitempty"`
	Include          *string  `yaml:"include"`
	Exclude          *string  `yaml:"exclude"`
	MaxBytes         *int64   `yaml:"max_bytes"`
	Threads          *int     `yaml:"threads"`
	NoColor          *bool    `yaml:"no_color"`
	DefaultExcludes  *bool    `yaml:"default_excludes"`
	FailOn           *string  `yaml:"fail_on"`
}

// Options is the configuration bundle handed to every inspection. It is a
// plain value: callers thread it through explicitly, nothing reads it from
// package state.
type Options struct {
	// Enabled is the global on/off gate, checked before scanning.
	Enabled bool
	// UseByteMarker selects the lossy two-hex-digit marker over U+XXXX.
	UseByteMarker bool
	// ExcludedSuffixes suppresses documents whose name ends with any entry.
	ExcludedSuffixes []string
}

// DefaultOptions returns an enabled bundle with code point markers and no
// excluded suffixes.
func DefaultOptions() Options {
	return Options{Enabled: true}
}

// Excludes reports whether a document with the given name is suppressed by
// one of the configured suffixes. Matching is case-sensitive.
func (o Options) Excludes(name string) bool {
	for _, s := range o.ExcludedSuffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Formatter returns the marker formatter selected by UseByteMarker.
func (o Options) Formatter() invisible.Formatter {
	return invisible.FormatterFor(o.UseByteMarker)
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .ghostmark.yml/.yaml and ghostmark.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".ghostmark.yml", ".ghostmark.yaml", "ghostmark.yml", "ghostmark.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "ghostmark", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// Suffixes returns the first non-empty suffix list: local, then global.
func Suffixes(local, global FileConfig) []string {
	if len(local.ExcludedSuffixes) > 0 {
		return local.ExcludedSuffixes
	}
	return global.ExcludedSuffixes
}

// ParseSuffixes splits a comma-separated flag value, dropping blanks.
func ParseSuffixes(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
