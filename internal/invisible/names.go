package invisible

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/runenames"
)

// Category groups invisible code points by how they deceive a reader.
type Category string

const (
	CatNone       Category = ""
	CatZeroWidth  Category = "zero-width"
	CatBidi       Category = "bidi-control"
	CatSeparator  Category = "separator"
	CatFiller     Category = "filler"
	CatVariation  Category = "variation-selector"
	CatPrivateUse Category = "private-use"
	CatFormat     Category = "format"
)

// CategoryOf buckets r for reporting. Visible code points return CatNone.
func CategoryOf(r rune) Category {
	if !IsInvisible(r) {
		return CatNone
	}
	switch {
	case r == 0x200B || r == 0x200C || r == 0x200D || r == 0x2060 || r == 0xFEFF:
		return CatZeroWidth
	case r == 0x200E || r == 0x200F || r == 0x061C || (r >= 0x2066 && r <= 0x2069):
		return CatBidi
	case r == 0x2028 || r == 0x2029 || r == 0x180E:
		return CatSeparator
	case r == 0x115F || r == 0x1160 || r == 0x3164 || r == 0xFFA0 || r == 0x17B4 || r == 0x17B5:
		return CatFiller
	case (r >= 0xFE00 && r <= 0xFE0F) || (r >= 0xE0100 && r <= 0xE01EF) || (r >= 0x180B && r <= 0x180F):
		return CatVariation
	case (r >= 0xE000 && r <= 0xF8FF) || r >= 0xF0000:
		return CatPrivateUse
	}
	return CatFormat
}

// Name returns the Unicode character name of r, or a short description for
// code points the name tables only know as part of an unnamed block.
func Name(r rune) string {
	n := runenames.Name(r)
	if n != "" && !strings.HasPrefix(n, "<") {
		return n
	}
	switch {
	case r >= 0xE000 && r <= 0xF8FF:
		return "PRIVATE USE"
	case r >= 0xF0000 && r <= 0xFFFFD:
		return "SUPPLEMENTARY PRIVATE USE-A"
	case r >= 0x100000 && r <= 0x10FFFD:
		return "SUPPLEMENTARY PRIVATE USE-B"
	case r >= 0xE0100 && r <= 0xE01EF:
		return fmt.Sprintf("VARIATION SELECTOR-%d", r-0xE0100+17)
	}
	if n != "" {
		return n
	}
	return "UNKNOWN"
}
