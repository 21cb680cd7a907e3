// Package syntax tells whether byte offsets in a source file fall inside a
// comment, a string literal, or ordinary code. Invisible characters in
// comments and strings are the classic "trojan source" shape, so reports
// surface this next to each finding.
package syntax

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Kind is the token class an offset sits in.
type Kind string

const (
	Unknown Kind = ""
	Code    Kind = "code"
	Comment Kind = "comment"
	String  Kind = "string"
)

type span struct {
	start, end int
	kind       Kind
}

// Map is a tokenised view of one document.
type Map struct {
	spans []span
}

// Lexer picks a chroma lexer by filename, then by content analysis. It
// returns nil when neither identifies the language.
func Lexer(filename, text string) chroma.Lexer {
	l := lexers.Match(filename)
	if l == nil {
		l = lexers.Analyse(text)
	}
	if l == nil {
		return nil
	}
	return chroma.Coalesce(l)
}

// Analyze tokenises text. Unknown languages and lexer failures yield an
// empty Map whose lookups return Unknown.
func Analyze(filename, text string) *Map {
	m := &Map{}
	text = byteWiseValid(text)
	l := Lexer(filename, text)
	if l == nil {
		return m
	}
	// EnsureLF would rewrite CRLF and shift every later offset.
	it, err := l.Tokenise(&chroma.TokeniseOptions{State: "root", EnsureLF: false}, text)
	if err != nil {
		return m
	}
	off := 0
	for _, tok := range it.Tokens() {
		end := off + len(tok.Value)
		if end > len(text) {
			end = len(text)
		}
		if k := kindOf(tok.Type); end > off {
			if n := len(m.spans); n > 0 && m.spans[n-1].kind == k && m.spans[n-1].end == off {
				m.spans[n-1].end = end
			} else {
				m.spans = append(m.spans, span{start: off, end: end, kind: k})
			}
		}
		off = end
	}
	return m
}

// byteWiseValid swaps every invalid byte for a single '?'. chroma works on
// runes and would otherwise widen each bad byte to a 3-byte U+FFFD.
func byteWiseValid(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte('?')
		} else {
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	return b.String()
}

func kindOf(t chroma.TokenType) Kind {
	switch {
	case t.InCategory(chroma.Comment):
		return Comment
	case t.InSubCategory(chroma.LiteralString):
		return String
	}
	return Code
}

// At returns the kind of token covering off.
func (m *Map) At(off int) Kind {
	if m == nil || len(m.spans) == 0 {
		return Unknown
	}
	i := sort.Search(len(m.spans), func(i int) bool { return m.spans[i].end > off })
	if i == len(m.spans) || m.spans[i].start > off {
		return Unknown
	}
	return m.spans[i].kind
}
