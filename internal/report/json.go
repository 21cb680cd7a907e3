package report

import (
	"encoding/json"
	"io"

	"github.com/varalys/ghostmark/internal/types"
)

// JSONReport is the --json output shape.
type JSONReport struct {
	Findings     []types.Finding `json:"findings"`
	FilesScanned int             `json:"files_scanned"`
	FilesSkipped int             `json:"files_skipped"`
	DurationMS   int64           `json:"duration_ms"`
}

// WriteJSON writes findings and scan statistics as indented JSON. A nil
// finding list is written as an empty array.
func WriteJSON(w io.Writer, findings []types.Finding, opts PrintOptions) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(JSONReport{
		Findings:     findings,
		FilesScanned: opts.FilesScanned,
		FilesSkipped: opts.FilesSkipped,
		DurationMS:   opts.Duration.Milliseconds(),
	})
}
