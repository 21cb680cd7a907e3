package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_Go(t *testing.T) {
	src := "package main\n\n// note\u200b here\nvar s = \"a\u2066b\"\nvar x\u200d = 1\n"
	m := Analyze("main.go", src)

	assert.Equal(t, Comment, m.At(strings.Index(src, "\u200b")))
	assert.Equal(t, String, m.At(strings.Index(src, "\u2066")))
	assert.Equal(t, Code, m.At(strings.Index(src, "\u200d")))
}

func TestAnalyze_CRLFKeepsOffsets(t *testing.T) {
	src := "package main\r\n\r\n// one\r\n// two\u200b\r\n"
	m := Analyze("main.go", src)
	assert.Equal(t, Comment, m.At(strings.Index(src, "\u200b")))
}

func TestAnalyze_InvalidUTF8KeepsOffsets(t *testing.T) {
	src := "package main\n\n// \xff\xff\xff\xff\xff\xff\nvar x\u200b = 1\n"
	m := Analyze("main.go", src)
	assert.Equal(t, Comment, m.At(strings.Index(src, "\xff")))
	assert.Equal(t, Code, m.At(strings.Index(src, "\u200b")))
}

func TestByteWiseValid(t *testing.T) {
	in := "a\xff\xfeb\u200bc"
	out := byteWiseValid(in)
	assert.Equal(t, len(in), len(out))
	assert.Equal(t, "a??b\u200bc", out)
	assert.Equal(t, "plain", byteWiseValid("plain"))
}

func TestAnalyze_UnknownLanguage(t *testing.T) {
	m := Analyze("", "")
	assert.Equal(t, Unknown, m.At(0))
	var nilMap *Map
	assert.Equal(t, Unknown, nilMap.At(3))
}
