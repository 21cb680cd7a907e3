// Package tui is the interactive review screen for scan findings.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/varalys/ghostmark/internal/state"
	"github.com/varalys/ghostmark/internal/types"
)

// Run shows findings until the user quits. Preferences toggled on screen are
// persisted through the state package.
func Run(findings []types.Finding, prefs state.State, actions Actions) error {
	m := NewModel(findings, prefs, actions)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
