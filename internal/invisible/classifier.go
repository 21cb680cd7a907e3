package invisible

import "slices"

// codeRange is an inclusive [Lo, Hi] span of code points.
type codeRange struct {
	Lo, Hi rune
}

// exact lists the single code points that render as nothing (or next to
// nothing) in most fonts and editors.
var exact = map[rune]struct{}{
	0x00AD: {}, // SOFT HYPHEN
	0x034F: {}, // COMBINING GRAPHEME JOINER
	0x061C: {}, // ARABIC LETTER MARK
	0x115F: {}, // HANGUL CHOSEONG FILLER
	0x1160: {}, // HANGUL JUNGSEONG FILLER
	0x17B4: {}, // KHMER VOWEL INHERENT AQ
	0x17B5: {}, // KHMER VOWEL INHERENT AA
	0x180B: {}, // MONGOLIAN FREE VARIATION SELECTOR ONE
	0x180C: {}, // MONGOLIAN FREE VARIATION SELECTOR TWO
	0x180D: {}, // MONGOLIAN FREE VARIATION SELECTOR THREE
	0x180E: {}, // MONGOLIAN VOWEL SEPARATOR
	0x180F: {}, // MONGOLIAN FREE VARIATION SELECTOR FOUR
	0x200B: {}, // ZERO WIDTH SPACE
	0x200C: {}, // ZERO WIDTH NON-JOINER
	0x200D: {}, // ZERO WIDTH JOINER
	0x200E: {}, // LEFT-TO-RIGHT MARK
	0x200F: {}, // RIGHT-TO-LEFT MARK
	0x2028: {}, // LINE SEPARATOR
	0x2029: {}, // PARAGRAPH SEPARATOR
	0x2060: {}, // WORD JOINER
	0x2061: {}, // FUNCTION APPLICATION
	0x2062: {}, // INVISIBLE TIMES
	0x2063: {}, // INVISIBLE SEPARATOR
	0x2064: {}, // INVISIBLE PLUS
	0x2066: {}, // LEFT-TO-RIGHT ISOLATE
	0x2067: {}, // RIGHT-TO-LEFT ISOLATE
	0x2068: {}, // FIRST STRONG ISOLATE
	0x2069: {}, // POP DIRECTIONAL ISOLATE
	0x3164: {}, // HANGUL FILLER
	0xFEFF: {}, // ZERO WIDTH NO-BREAK SPACE / BOM
	0xFFA0: {}, // HALFWIDTH HANGUL FILLER
}

// ranges must stay sorted by Lo; Ranges hands out copies.
var ranges = []codeRange{
	{0xE000, 0xF8FF},    // Private Use Area
	{0xFE00, 0xFE0F},    // Variation Selectors
	{0xE0100, 0xE01EF},  // Variation Selectors Supplement
	{0xF0000, 0x10FFFD}, // Supplementary Private Use Area-A and -B
}

// IsInvisible reports whether r should be flagged as an invisible or
// visually deceptive code point. Space, tab, LF and CR are never flagged.
func IsInvisible(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return false
	}
	if _, ok := exact[r]; ok {
		return true
	}
	for _, cr := range ranges {
		if r < cr.Lo {
			return false
		}
		if r <= cr.Hi {
			return true
		}
	}
	return false
}

// Range is an exported view of one classification range.
type Range struct {
	Lo rune `json:"lo"`
	Hi rune `json:"hi"`
}

// Ranges returns a copy of the classification ranges in ascending order.
func Ranges() []Range {
	out := make([]Range, len(ranges))
	for i, cr := range ranges {
		out[i] = Range{Lo: cr.Lo, Hi: cr.Hi}
	}
	return out
}

// Exact returns the enumerated invisible code points in ascending order.
func Exact() []rune {
	out := make([]rune, 0, len(exact))
	for r := range exact {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
