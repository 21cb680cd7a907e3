// Package audit keeps an append-only history of scans as JSON lines so
// users can see how the invisible character count of a tree changes over
// time.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/varalys/ghostmark/internal/types"
)

// FileName is the history file name inside .git, or with a leading dot in
// the scan root when there is no .git directory.
const FileName = "ghostmark_audit.jsonl"

// maxTop caps how many new findings a record summarizes.
const maxTop = 10

type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	Revision       string           `json:"revision,omitempty"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	SeverityCounts map[string]int   `json:"severity_counts"`
	CategoryCounts map[string]int   `json:"category_counts"`
	FilesScanned   int              `json:"files_scanned"`
	FilesSkipped   int              `json:"files_skipped"`
	Duration       string           `json:"duration"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Path      string `json:"path"`
	CodePoint string `json:"code_point"`
	Severity  string `json:"severity"`
	Line      int    `json:"line"`
}

// Log is the history file for one scan root.
type Log struct {
	path string
}

// New returns the log for root.
func New(root string) *Log {
	p := filepath.Join(root, "."+FileName)
	if st, err := os.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		p = filepath.Join(root, ".git", FileName)
	}
	return &Log{path: p}
}

// Path returns the file backing the log.
func (a *Log) Path() string { return a.path }

// History returns every record, newest first. Lines that fail to decode are
// skipped.
func (a *Log) History() ([]ScanRecord, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var r ScanRecord
		if err := dec.Decode(&r); err != nil {
			break
		}
		records = append(records, r)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Append adds one record to the end of the log.
func (a *Log) Append(r ScanRecord) error {
	if r.ScanID == "" {
		r.ScanID = fmt.Sprintf("scan_%d", r.Timestamp.UnixNano())
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// Delete removes the record at index, counted newest first as History
// returns them.
func (a *Log) Delete(index int) error {
	records, err := a.History()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}
	records = append(records[:index], records[index+1:]...)

	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("rewrite audit log: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for i := len(records) - 1; i >= 0; i-- {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("write audit record: %w", err)
		}
	}
	return nil
}

// NewRecord summarizes a finished scan. all is every finding, fresh is what
// remained after baseline filtering.
func NewRecord(root, rev string, all, fresh []types.Finding, scanned, skipped int, took time.Duration) ScanRecord {
	sev := map[string]int{}
	cat := map[string]int{}
	for _, f := range all {
		sev[string(f.Severity)]++
		cat[f.Category]++
	}

	top := make([]types.Finding, len(fresh))
	copy(top, fresh)
	rank := map[types.Severity]int{types.SevHigh: 0, types.SevMed: 1, types.SevLow: 2}
	sort.SliceStable(top, func(i, j int) bool { return rank[top[i].Severity] < rank[top[j].Severity] })
	if len(top) > maxTop {
		top = top[:maxTop]
	}
	var summaries []FindingSummary
	for _, f := range top {
		summaries = append(summaries, FindingSummary{Path: f.Path, CodePoint: f.CodePoint, Severity: string(f.Severity), Line: f.Line})
	}

	return ScanRecord{
		Timestamp:      time.Now().UTC(),
		Root:           root,
		Revision:       rev,
		TotalFindings:  len(all),
		NewFindings:    len(fresh),
		BaselinedCount: len(all) - len(fresh),
		SeverityCounts: sev,
		CategoryCounts: cat,
		FilesScanned:   scanned,
		FilesSkipped:   skipped,
		Duration:       took.Round(time.Millisecond).String(),
		TopFindings:    summaries,
	}
}
