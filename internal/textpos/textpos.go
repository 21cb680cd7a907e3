// Package textpos maps byte offsets in a text snapshot to line and column
// positions, in both UTF-8 bytes and UTF-16 code units.
package textpos

import (
	"sort"
	"unicode/utf8"
)

// Position is a 1-based line and column. Column counts bytes; UTF16Column
// counts UTF-16 code units, which is what most editor protocols expect.
type Position struct {
	Line        int
	Column      int
	UTF16Column int
}

// Index holds the line starts of one text snapshot.
type Index struct {
	text   string
	starts []int
}

// NewIndex scans text once for line breaks. A line ends at "\n"; a "\r"
// directly before it belongs to the line it ends.
func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, starts: starts}
}

// Lines returns the number of lines in the snapshot.
func (x *Index) Lines() int { return len(x.starts) }

// Position locates off. Offsets past the end clamp to the end of the text.
func (x *Index) Position(off int) Position {
	if off < 0 {
		off = 0
	}
	if off > len(x.text) {
		off = len(x.text)
	}
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > off }) - 1
	start := x.starts[line]
	return Position{
		Line:        line + 1,
		Column:      off - start + 1,
		UTF16Column: utf16Len(x.text[start:off]) + 1,
	}
}

// Line returns the text of the 1-based line n without its line terminator.
func (x *Index) Line(n int) string {
	if n < 1 || n > len(x.starts) {
		return ""
	}
	start := x.starts[n-1]
	end := len(x.text)
	if n < len(x.starts) {
		end = x.starts[n] - 1
	}
	if end > start && x.text[end-1] == '\r' {
		end--
	}
	return x.text[start:end]
}

// LineStart returns the byte offset of the first byte of the 1-based line n.
func (x *Index) LineStart(n int) int {
	if n < 1 || n > len(x.starts) {
		return -1
	}
	return x.starts[n-1]
}

// utf16Len counts UTF-16 code units; invalid bytes count as one unit each,
// matching how they decode to U+FFFD.
func utf16Len(s string) int {
	n := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		i += size
	}
	return n
}
