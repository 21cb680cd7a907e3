package core

import (
	"context"

	"github.com/varalys/ghostmark/internal/config"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Match     = invisible.Match
	Formatter = invisible.Formatter
	Options   = config.Options
	Document  = engine.Document
	Config    = engine.Config
	Result    = engine.Result
	Finding   = types.Finding
)

// IsInvisible reports whether r is flagged as invisible or deceptive.
func IsInvisible(r rune) bool { return invisible.IsInvisible(r) }

// Detect returns every invisible code point in text, ordered by byte offset.
func Detect(text string) []Match { return invisible.Detect(text) }

// Clean replaces each match in text with f's marker.
func Clean(text string, matches []Match, f Formatter) string {
	return invisible.Clean(text, matches, f)
}

// CodePointMarker renders r as "U+XXXX ".
func CodePointMarker(r rune) string { return invisible.CodePointMarker(r) }

// ByteMarker renders the low byte of r as two hex digits and a space. It is
// lossy: distinct code points can share a marker.
func ByteMarker(r rune) string { return invisible.ByteMarker(r) }

// DefaultOptions returns an enabled bundle with code point markers.
func DefaultOptions() Options { return config.DefaultOptions() }

// Inspect is Detect behind the enabled flag and excluded-suffix gate.
func Inspect(doc Document, opts Options) []Match { return engine.Inspect(doc, opts) }

// Scan is the stable entrypoint for scanning a directory tree.
func Scan(ctx context.Context, cfg Config) ([]Finding, error) {
	return engine.Scan(ctx, cfg)
}

// ScanWithStats runs a scan and returns findings with timing and counts.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, cfg)
}
