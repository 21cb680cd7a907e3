package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/varalys/ghostmark/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool                     sarifTool      `json:"tool"`
	Results                  []sarifResult  `json:"results"`
	VersionControlProvenance []sarifVCS     `json:"versionControlProvenance,omitempty"`
	Properties               map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	ByteOffset  int `json:"byteOffset"`
	ByteLength  int `json:"byteLength"`
}

type sarifVCS struct {
	RepositoryURI string `json:"repositoryUri"`
	RevisionID    string `json:"revisionId,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// SARIFMeta carries optional run metadata. Empty fields are omitted.
type SARIFMeta struct {
	Version string
	Repo    string
	Commit  string
	Branch  string
	Stats   map[string]int
}

var ruleText = map[string]string{
	"zero-width":         "Zero-width character",
	"bidi-control":       "Bidirectional control character",
	"separator":          "Invisible line or paragraph separator",
	"filler":             "Blank filler character",
	"variation-selector": "Variation selector",
	"private-use":        "Private use code point",
	"format":             "Invisible formatting character",
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "error"
	case types.SevMed:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0 to the provided writer. Each
// category becomes a rule; regions carry the 1-based line and column plus
// the byte offset and length.
func WriteSARIF(w io.Writer, findings []types.Finding, meta SARIFMeta) error {
	if meta.Version == "" {
		meta.Version = "dev"
	}
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "ghostmark", Version: meta.Version, InformationURI: "https://github.com/varalys/ghostmark"}},
		Results: []sarifResult{},
	}

	var ids []string
	seen := map[string]bool{}
	for _, f := range findings {
		if !seen[f.Category] {
			seen[f.Category] = true
			ids = append(ids, f.Category)
		}
	}
	sort.Strings(ids)
	index := map[string]int{}
	for i, id := range ids {
		index[id] = i
		desc := ruleText[id]
		if desc == "" {
			desc = id
		}
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{ID: id, ShortDescription: sarifMessage{Text: desc}})
	}

	for _, f := range findings {
		run.Results = append(run.Results, sarifResult{
			RuleID:    f.Category,
			RuleIndex: index[f.Category],
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: f.CodePoint + " " + f.Name},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region: sarifRegion{
						StartLine:   f.Line,
						StartColumn: f.Column,
						ByteOffset:  f.Offset,
						ByteLength:  f.Length,
					},
				},
			}},
		})
	}
	if meta.Repo != "" {
		run.VersionControlProvenance = []sarifVCS{{RepositoryURI: meta.Repo, RevisionID: meta.Commit, Branch: meta.Branch}}
	}
	if len(meta.Stats) > 0 {
		run.Properties = map[string]any{"scanStats": meta.Stats}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
