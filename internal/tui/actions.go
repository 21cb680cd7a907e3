package tui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/state"
	"github.com/varalys/ghostmark/internal/syntax"
	"github.com/varalys/ghostmark/internal/types"
)

// swapped in tests
var (
	writeClipboard = clipboard.WriteAll
	saveState      = state.Save
)

func (m *Model) cleanFile(path string) tea.Cmd {
	clean := m.actions.Clean
	f := invisible.FormatterFor(m.prefs.UseByteMarker)
	if !m.prefs.Enabled {
		m.setStatus("ghostmark is disabled (press e to enable)", 3*time.Second)
		return nil
	}
	return func() tea.Msg {
		if clean == nil {
			return statusMsg("Clean not available")
		}
		out, err := clean(path, f)
		if err != nil {
			return statusMsg(fmt.Sprintf("Clean failed: %v", err))
		}
		out.Path = path
		return cleanedMsg{outcome: out}
	}
}

func (m *Model) copyMarker(f types.Finding) tea.Cmd {
	marker := m.markerFor(f)
	return func() tea.Msg {
		if err := writeClipboard(marker); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard unavailable: %v", err))
		}
		return statusMsg(fmt.Sprintf("Copied %q to clipboard", marker))
	}
}

func (m *Model) toggleEnabled() {
	m.prefs.Enabled = !m.prefs.Enabled
	if err := saveState(m.prefs); err != nil {
		m.setStatus(fmt.Sprintf("Could not save state: %v", err), 3*time.Second)
		return
	}
	if m.prefs.Enabled {
		m.setStatus("ghostmark enabled", 3*time.Second)
	} else {
		m.setStatus("ghostmark disabled", 3*time.Second)
	}
}

func (m *Model) toggleMarker() {
	m.prefs.UseByteMarker = !m.prefs.UseByteMarker
	if err := saveState(m.prefs); err != nil {
		m.setStatus(fmt.Sprintf("Could not save state: %v", err), 3*time.Second)
		return
	}
	if m.prefs.UseByteMarker {
		m.setStatus("Byte markers (lossy)", 3*time.Second)
	} else {
		m.setStatus("Code point markers", 3*time.Second)
	}
	m.updateViewportContent()
}

// parseCodePoint reads a "U+XXXX" label back into a rune.
func parseCodePoint(s string) (rune, bool) {
	if !strings.HasPrefix(s, "U+") {
		return 0, false
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// lineAt returns the 1-based line n of text without its terminator.
func lineAt(text string, n int) (string, bool) {
	lines := strings.Split(text, "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

func highlightLine(line string, filename string) string {
	lexer := syntax.Lexer(filename, line)
	if lexer == nil {
		return line // No highlighting for unknown file types
	}

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
