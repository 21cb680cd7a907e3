package invisible

import (
	"fmt"
	"slices"
	"strings"
)

// Formatter renders the visible marker that replaces an invisible code point.
type Formatter func(r rune) string

// CodePointMarker renders "U+XXXX " with at least four upper-case hex digits.
func CodePointMarker(r rune) string {
	return fmt.Sprintf("U+%04X ", r)
}

// ByteMarker renders the low byte of r as two upper-case hex digits and a
// trailing space. Code points above 0xFF are truncated on purpose; tooling
// downstream keys on byte-aligned markers.
func ByteMarker(r rune) string {
	return fmt.Sprintf("%02X ", r&0xFF)
}

// FormatterFor picks ByteMarker when useByteMarker is set, CodePointMarker otherwise.
func FormatterFor(useByteMarker bool) Formatter {
	if useByteMarker {
		return ByteMarker
	}
	return CodePointMarker
}

// Stats describes the edit performed by CleanWithStats.
type Stats struct {
	Replaced int // matches spliced
	Removed  int // bytes taken out
	Inserted int // marker bytes put in
}

// Clean replaces every match in text with f(match.CodePoint). matches may be
// in any order; they are applied from the highest offset down so earlier
// offsets stay valid. The caller's slice is not modified.
func Clean(text string, matches []Match, f Formatter) string {
	out, _ := CleanWithStats(text, matches, f)
	return out
}

// CleanWithStats is Clean that also reports what was spliced.
//
// Overlapping or out-of-range matches cannot come out of Detect; receiving
// them means the caller built or mixed match lists by hand, and CleanWithStats
// panics rather than producing a silently corrupted buffer.
func CleanWithStats(text string, matches []Match, f Formatter) (string, Stats) {
	var st Stats
	if len(matches) == 0 {
		return text, st
	}
	if f == nil {
		f = CodePointMarker
	}
	sorted := slices.Clone(matches)
	slices.SortFunc(sorted, func(a, b Match) int { return b.Index - a.Index })

	markers := make([]string, len(sorted))
	grow := 0
	limit := len(text)
	for i, m := range sorted {
		if m.Len < 1 || m.Index < 0 || m.End() > limit {
			panic(fmt.Sprintf("invisible: match %+v overlaps or exceeds [0,%d)", m, limit))
		}
		limit = m.Index
		markers[i] = f(m.CodePoint)
		grow += len(markers[i]) - m.Len
	}

	// Splice back to front into a builder; tail holds the unprocessed suffix.
	pieces := make([]string, 0, 2*len(sorted)+1)
	tail := len(text)
	for i, m := range sorted {
		pieces = append(pieces, text[m.End():tail], markers[i])
		tail = m.Index
		st.Replaced++
		st.Removed += m.Len
		st.Inserted += len(markers[i])
	}
	pieces = append(pieces, text[:tail])

	var b strings.Builder
	b.Grow(len(text) + grow)
	for i := len(pieces) - 1; i >= 0; i-- {
		b.WriteString(pieces[i])
	}
	return b.String(), st
}
