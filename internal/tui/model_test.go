package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/rewrite"
	"github.com/varalys/ghostmark/internal/state"
	"github.com/varalys/ghostmark/internal/types"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(k))
	return next.(Model), cmd
}

// run executes cmd and feeds its message back, as the program loop would.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func sampleFindings() []types.Finding {
	return []types.Finding{
		{Path: "a.go", Line: 2, Column: 6, CodePoint: "U+200B", Name: "ZERO WIDTH SPACE", Category: "zero-width", Severity: types.SevMed, Context: "// hi<U+200B>"},
		{Path: "a.go", Line: 4, Column: 1, CodePoint: "U+2066", Name: "LEFT-TO-RIGHT ISOLATE", Category: "bidi-control", Severity: types.SevHigh},
		{Path: "b.md", Line: 1, Column: 3, CodePoint: "U+FE0F", Name: "VARIATION SELECTOR-16", Category: "variation-selector", Severity: types.SevLow},
	}
}

func stubState(t *testing.T) *[]state.State {
	t.Helper()
	var saved []state.State
	old := saveState
	saveState = func(st state.State) error {
		saved = append(saved, st)
		return nil
	}
	t.Cleanup(func() { saveState = old })
	return &saved
}

func TestSeverityFilter(t *testing.T) {
	m := sized(NewModel(sampleFindings(), state.Default(), Actions{}))

	m, _ = press(t, m, "1")
	require.Len(t, m.displayFindings(), 1)
	assert.Equal(t, "U+2066", m.displayFindings()[0].CodePoint)

	m, _ = press(t, m, "3")
	require.Len(t, m.displayFindings(), 1)
	assert.Equal(t, "b.md", m.displayFindings()[0].Path)

	m, _ = press(t, m, "esc")
	assert.Len(t, m.displayFindings(), 3)
	assert.Nil(t, m.filtered)
}

func TestCleanRemovesFileFindings(t *testing.T) {
	var gotPath string
	var gotMarker string
	actions := Actions{Clean: func(path string, f invisible.Formatter) (rewrite.Outcome, error) {
		gotPath = path
		gotMarker = f(0x200B)
		return rewrite.Outcome{Path: "/abs/" + path, Changed: true, Stats: invisible.Stats{Replaced: 2}}, nil
	}}
	m := sized(NewModel(sampleFindings(), state.Default(), actions))

	m, cmd := press(t, m, "c")
	m = run(t, m, cmd)
	assert.Equal(t, "a.go", gotPath)
	assert.Equal(t, "U+200B ", gotMarker)
	require.Len(t, m.findings, 1)
	assert.Equal(t, "b.md", m.findings[0].Path)
	assert.Contains(t, m.statusMessage, "Cleaned 2 characters in a.go")
}

func TestCleanErrorAndDisabled(t *testing.T) {
	actions := Actions{Clean: func(string, invisible.Formatter) (rewrite.Outcome, error) {
		return rewrite.Outcome{}, errors.New("read-only")
	}}
	m := sized(NewModel(sampleFindings(), state.Default(), actions))
	m, cmd := press(t, m, "c")
	m = run(t, m, cmd)
	assert.Contains(t, m.statusMessage, "read-only")
	assert.Len(t, m.findings, 3)

	off := state.Default()
	off.Enabled = false
	m = sized(NewModel(sampleFindings(), off, actions))
	m, cmd = press(t, m, "c")
	assert.Nil(t, cmd)
	assert.Contains(t, m.statusMessage, "disabled")
}

func TestCopyMarkerFollowsMode(t *testing.T) {
	saved := stubState(t)
	var copied []string
	old := writeClipboard
	writeClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	t.Cleanup(func() { writeClipboard = old })

	m := sized(NewModel(sampleFindings(), state.Default(), Actions{}))
	m, cmd := press(t, m, "y")
	m = run(t, m, cmd)

	m, _ = press(t, m, "m")
	assert.True(t, m.prefs.UseByteMarker)
	require.Len(t, *saved, 1)
	assert.True(t, (*saved)[0].UseByteMarker)

	m, cmd = press(t, m, "y")
	m = run(t, m, cmd)
	assert.Equal(t, []string{"U+200B ", "0B "}, copied)
	assert.Contains(t, m.statusMessage, "Copied")
}

func TestToggleEnabledPersists(t *testing.T) {
	saved := stubState(t)
	m := sized(NewModel(nil, state.Default(), Actions{}))
	m, _ = press(t, m, "e")
	assert.False(t, m.prefs.Enabled)
	m, _ = press(t, m, "e")
	assert.True(t, m.prefs.Enabled)
	require.Len(t, *saved, 2)
	assert.False(t, (*saved)[0].Enabled)
	assert.True(t, (*saved)[1].Enabled)
}

func TestRescan(t *testing.T) {
	calls := 0
	actions := Actions{Rescan: func() ([]types.Finding, error) {
		calls++
		return sampleFindings()[:1], nil
	}}
	m := sized(NewModel(nil, state.Default(), actions))
	m, cmd := press(t, m, "r")
	assert.True(t, m.scanning)
	m = run(t, m, cmd)
	assert.False(t, m.scanning)
	assert.Equal(t, 1, calls)
	assert.Len(t, m.findings, 1)
	assert.Contains(t, m.statusMessage, "found 1 findings")

	failing := sized(NewModel(nil, state.Default(), Actions{Rescan: func() ([]types.Finding, error) {
		return nil, errors.New("boom")
	}}))
	failing, cmd = press(t, failing, "r")
	failing = run(t, failing, cmd)
	assert.False(t, failing.scanning)
	assert.Contains(t, failing.statusMessage, "boom")

	none := sized(NewModel(nil, state.Default(), Actions{}))
	none, cmd = press(t, none, "r")
	assert.Nil(t, cmd)
	assert.Equal(t, "Rescan not available", none.statusMessage)
}

func TestQuit(t *testing.T) {
	m := sized(NewModel(sampleFindings(), state.Default(), Actions{}))
	m, cmd := press(t, m, "q")
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestView_Rendering(t *testing.T) {
	src := "package a\n// hi\u200b\n"
	m := sized(NewModel(sampleFindings(), state.Default(), Actions{
		Source: func(string) (string, error) { return src, nil },
	}))
	out := m.View()
	assert.Contains(t, out, "ZERO WIDTH SPACE")
	assert.Contains(t, out, "U+200B")
	assert.Contains(t, out, "enabled: on")

	m, _ = press(t, m, "?")
	assert.Contains(t, m.View(), "toggle code point / byte markers")
	m, _ = press(t, m, "x")
	assert.False(t, m.showHelp)

	empty := sized(NewModel(nil, state.Default(), Actions{}))
	assert.Contains(t, empty.View(), "No invisible characters to review")

	assert.Equal(t, "Initializing...", NewModel(nil, state.Default(), Actions{}).View())
}

func TestHelpers(t *testing.T) {
	r, ok := parseCodePoint("U+E0100")
	assert.True(t, ok)
	assert.Equal(t, rune(0xE0100), r)
	_, ok = parseCodePoint("200B")
	assert.False(t, ok)

	line, ok := lineAt("one\r\ntwo\n", 1)
	assert.True(t, ok)
	assert.Equal(t, "one", line)
	_, ok = lineAt("one", 3)
	assert.False(t, ok)
}
