package engine

import (
	"fmt"
	"strings"

	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/syntax"
	"github.com/varalys/ghostmark/internal/textpos"
	"github.com/varalys/ghostmark/internal/types"
)

// maximum bytes of source line carried in a finding's context
const maxContext = 160

// SeverityOf maps a category to the risk it poses in source text. Bidi
// controls reorder what a reviewer sees, so they rank highest.
func SeverityOf(c invisible.Category) types.Severity {
	switch c {
	case invisible.CatBidi:
		return types.SevHigh
	case invisible.CatVariation, invisible.CatPrivateUse:
		return types.SevLow
	default:
		return types.SevMed
	}
}

// BuildFindings turns the matches of one document into findings. matches
// must come from invisible.Detect over the same text.
func BuildFindings(path, text string, matches []invisible.Match, f invisible.Formatter) []types.Finding {
	if len(matches) == 0 {
		return nil
	}
	idx := textpos.NewIndex(text)
	sm := syntax.Analyze(path, text)
	out := make([]types.Finding, 0, len(matches))
	contexts := map[int]string{}
	for _, m := range matches {
		pos := idx.Position(m.Index)
		cat := invisible.CategoryOf(m.CodePoint)
		ctx, ok := contexts[pos.Line]
		if !ok {
			ctx = lineContext(idx, pos.Line)
			contexts[pos.Line] = ctx
		}
		out = append(out, types.Finding{
			Path:        path,
			Offset:      m.Index,
			Length:      m.Len,
			Line:        pos.Line,
			Column:      pos.Column,
			UTF16Column: pos.UTF16Column,
			CodePoint:   CodePointLabel(m.CodePoint),
			Name:        invisible.Name(m.CodePoint),
			Category:    string(cat),
			Severity:    SeverityOf(cat),
			Marker:      f(m.CodePoint),
			Syntax:      string(sm.At(m.Index)),
			Context:     ctx,
		})
	}
	return out
}

// CodePointLabel formats r as "U+XXXX".
func CodePointLabel(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// lineContext returns line n with every invisible code point spelled out as
// <U+XXXX> so the excerpt is safe to print.
func lineContext(idx *textpos.Index, n int) string {
	line := idx.Line(n)
	ms := invisible.Detect(line)
	if len(ms) > 0 {
		line = invisible.Clean(line, ms, func(r rune) string {
			return "<" + CodePointLabel(r) + ">"
		})
	}
	line = strings.TrimSpace(line)
	if len(line) > maxContext {
		cut := maxContext
		for cut > 0 && !startsRune(line[cut]) {
			cut--
		}
		line = line[:cut] + "..."
	}
	return line
}

func startsRune(b byte) bool { return b&0xC0 != 0x80 }
