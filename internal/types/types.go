package types

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Finding describes one invisible code point found in a document, located
// by byte offset and by line and column for human readers.
type Finding struct {
	Path        string   `json:"path"`
	Offset      int      `json:"offset"`                 // byte offset into the document
	Length      int      `json:"length"`                 // encoded length in bytes
	Line        int      `json:"line"`                   // 1-based
	Column      int      `json:"column"`                 // 1-based byte column
	UTF16Column int      `json:"utf16_column,omitempty"` // 1-based UTF-16 column for editor hosts
	CodePoint   string   `json:"code_point"`             // "U+200B"
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Marker      string   `json:"marker"`            // replacement a clean pass would insert
	Syntax      string   `json:"syntax,omitempty"`  // comment, string or code
	Context     string   `json:"context,omitempty"` // source line with markers inlined
}
