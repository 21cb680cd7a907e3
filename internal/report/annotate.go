package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/varalys/ghostmark/internal/invisible"
)

var markerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(lipgloss.Color("5"))

// Annotate renders text with every match replaced by a visible
// "[U+XXXX]" tag, highlighted unless noColor is set. It is the terminal
// counterpart of an editor decoration; the underlying text is not changed.
func Annotate(text string, matches []invisible.Match, noColor bool) string {
	if len(matches) == 0 {
		return text
	}
	return invisible.Clean(text, matches, func(r rune) string {
		tag := fmt.Sprintf("[U+%04X]", r)
		if noColor {
			return tag
		}
		return markerStyle.Render(tag)
	})
}
