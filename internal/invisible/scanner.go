package invisible

import "unicode/utf8"

// Match is one invisible code point found in a text snapshot. Index and Len
// are in bytes, the native unit of a Go string.
type Match struct {
	Index     int  `json:"index"`
	CodePoint rune `json:"code_point"`
	Len       int  `json:"len"`
}

// End returns the exclusive byte offset just past the match.
func (m Match) End() int { return m.Index + m.Len }

// Detect walks text one code point at a time and returns every invisible
// code point in ascending offset order. Invalid UTF-8 decodes as a one-byte
// utf8.RuneError, which is never invisible, so malformed input is skipped
// byte by byte rather than rejected.
func Detect(text string) []Match {
	var out []Match
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if IsInvisible(r) {
			out = append(out, Match{Index: i, CodePoint: r, Len: size})
		}
		i += size
	}
	return out
}

// DetectBytes is Detect over a byte slice.
func DetectBytes(b []byte) []Match {
	var out []Match
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if IsInvisible(r) {
			out = append(out, Match{Index: i, CodePoint: r, Len: size})
		}
		i += size
	}
	return out
}

// Count returns len(Detect(text)) without building the slice.
func Count(text string) int {
	n := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if IsInvisible(r) {
			n++
		}
		i += size
	}
	return n
}
