package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/report"
	"github.com/varalys/ghostmark/internal/rewrite"
	"github.com/varalys/ghostmark/internal/state"
	"github.com/varalys/ghostmark/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const defaultHelp = "q: quit | ?: help | j/k: navigate | c: clean | y: copy | e: enable | m: marker | r: rescan"

// severityText returns plain text for severity (ANSI codes break table truncation).
func severityText(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "HIGH"
	case types.SevMed:
		return "MED"
	case types.SevLow:
		return "LOW"
	default:
		return string(s)
	}
}

// Actions are the side effects the review UI can trigger. Nil entries
// disable the matching key.
type Actions struct {
	Rescan func() ([]types.Finding, error)
	Clean  func(path string, f invisible.Formatter) (rewrite.Outcome, error)
	// Source returns the current contents of a finding's file for the
	// detail pane.
	Source func(path string) (string, error)
}

// Model represents the main state of the TUI application.
type Model struct {
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model
	findings []types.Finding
	// findings after the severity filter; nil means unfiltered
	filtered       []types.Finding
	severityFilter types.Severity
	prefs          state.State
	actions        Actions

	quitting      bool
	ready         bool
	scanning      bool
	showHelp      bool
	showEmpty     bool
	height        int
	width         int
	statusMessage string
	statusTimeout *time.Time
	lastScanTime  time.Time
}

type findingsMsg []types.Finding

type statusMsg string

type cleanedMsg struct {
	outcome rewrite.Outcome
}

// NewModel initializes a new TUI model.
func NewModel(findings []types.Finding, prefs state.State, actions Actions) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 6},
		{Title: "Code Point", Width: 10},
		{Title: "Name", Width: 30},
		{Title: "Location", Width: 44},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := Model{
		table:        t,
		spinner:      sp,
		findings:     findings,
		prefs:        prefs,
		actions:      actions,
		lastScanTime: time.Now(),
	}
	m.rebuildTableRows()
	m.statusMessage = m.idleHelp()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) idleHelp() string {
	if len(m.findings) == 0 {
		return "q: quit | r: rescan | e: enable"
	}
	return defaultHelp
}

func (m *Model) setStatus(msg string, d time.Duration) {
	timeout := time.Now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = msg
}

func (m *Model) displayFindings() []types.Finding {
	if m.filtered != nil {
		return m.filtered
	}
	return m.findings
}

func (m *Model) selected() (types.Finding, bool) {
	fs := m.displayFindings()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(fs) {
		return types.Finding{}, false
	}
	return fs[idx], true
}

func (m *Model) applyFilters() {
	if m.severityFilter == "" {
		m.filtered = nil
		m.rebuildTableRows()
		return
	}
	filtered := []types.Finding{}
	for _, f := range m.findings {
		if f.Severity == m.severityFilter {
			filtered = append(filtered, f)
		}
	}
	m.filtered = filtered
	m.rebuildTableRows()
}

func (m *Model) rebuildTableRows() {
	fs := m.displayFindings()
	rows := make([]table.Row, len(fs))
	for i, f := range fs {
		rows[i] = table.Row{
			severityText(f.Severity),
			f.CodePoint,
			f.Name,
			fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(fs) {
		m.table.SetCursor(0)
	}
	m.showEmpty = len(fs) == 0
	m.updateViewportContent()
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	f, ok := m.selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.detail(f))
}

func (m *Model) detail(f types.Finding) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.CodePoint+" "+f.Name) + "\n\n")
	row := func(k, v string) {
		if v != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render(k), v))
		}
	}
	row("File:", fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column))
	row("Offset:", fmt.Sprintf("byte %d, %d bytes", f.Offset, f.Length))
	row("Category:", f.Category)
	row("Severity:", severityText(f.Severity))
	row("Syntax:", f.Syntax)
	row("Marker:", fmt.Sprintf("%q", m.markerFor(f)))

	b.WriteString("\n")
	b.WriteString(m.sourceLine(f))
	b.WriteString("\n")
	return b.String()
}

// sourceLine renders the finding's line from the current file with inline
// markers, falling back to the excerpt captured at scan time.
func (m *Model) sourceLine(f types.Finding) string {
	if m.actions.Source != nil {
		if text, err := m.actions.Source(f.Path); err == nil {
			if line, ok := lineAt(text, f.Line); ok {
				return highlightLine(report.Annotate(line, invisible.Detect(line), true), f.Path)
			}
		}
	}
	return highlightLine(f.Context, f.Path)
}

func (m *Model) markerFor(f types.Finding) string {
	r, ok := parseCodePoint(f.CodePoint)
	if !ok {
		return f.Marker
	}
	return invisible.FormatterFor(m.prefs.UseByteMarker)(r)
}

func (m *Model) rescan() tea.Cmd {
	rescan := m.actions.Rescan
	return func() tea.Msg {
		if rescan == nil {
			return statusMsg("Rescan not available")
		}
		fs, err := rescan()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return findingsMsg(fs)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "1":
			m.severityFilter = types.SevHigh
			m.applyFilters()
			m.setStatus("Showing HIGH severity only (Esc to clear)", 3*time.Second)
			return m, nil
		case "2":
			m.severityFilter = types.SevMed
			m.applyFilters()
			m.setStatus("Showing MED severity only (Esc to clear)", 3*time.Second)
			return m, nil
		case "3":
			m.severityFilter = types.SevLow
			m.applyFilters()
			m.setStatus("Showing LOW severity only (Esc to clear)", 3*time.Second)
			return m, nil
		case "esc":
			if m.severityFilter != "" {
				m.severityFilter = ""
				m.applyFilters()
				m.setStatus("Filter cleared", 3*time.Second)
			}
			return m, nil
		case "c":
			if f, ok := m.selected(); ok {
				return m, m.cleanFile(f.Path)
			}
			return m, nil
		case "y":
			if f, ok := m.selected(); ok {
				return m, m.copyMarker(f)
			}
			return m, nil
		case "e":
			m.toggleEnabled()
			return m, nil
		case "m":
			m.toggleMarker()
			return m, nil
		case "r":
			if m.actions.Rescan == nil {
				m.setStatus("Rescan not available", 3*time.Second)
				return m, nil
			}
			if !m.scanning {
				m.scanning = true
				m.statusMessage = "Rescanning..."
				return m, m.rescan()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		tableHeight := (m.height - 6) / 2
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.table.SetHeight(tableHeight)
		viewportHeight := m.height - tableHeight - 8
		if viewportHeight < 3 {
			viewportHeight = 3
		}
		m.viewport = viewport.New(m.width-2, viewportHeight)
		m.updateViewportContent()
		statusStyle = statusStyle.Width(m.width)
		return m, nil

	case findingsMsg:
		m.findings = msg
		m.lastScanTime = time.Now()
		m.scanning = false
		m.applyFilters()
		if len(m.findings) == 0 {
			m.setStatus("Rescan complete - no invisible characters found", 5*time.Second)
		} else {
			m.setStatus(fmt.Sprintf("Rescan complete - found %d findings", len(m.findings)), 5*time.Second)
		}
		return m, nil

	case cleanedMsg:
		m.dropPath(msg.outcome.Path)
		if msg.outcome.Changed {
			m.setStatus(fmt.Sprintf("Cleaned %d characters in %s", msg.outcome.Stats.Replaced, msg.outcome.Path), 5*time.Second)
		} else {
			m.setStatus("Nothing to clean in "+msg.outcome.Path, 3*time.Second)
		}
		return m, nil

	case statusMsg:
		m.scanning = false
		m.setStatus(string(msg), 3*time.Second)
		return m, nil

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			m.statusMessage = m.idleHelp()
		}
		return m, spinCmd
	}

	if !m.quitting && !m.showEmpty {
		m.table, cmd = m.table.Update(msg)
	}
	m.updateViewportContent()
	return m, cmd
}

// dropPath removes every finding in path after it has been cleaned.
func (m *Model) dropPath(path string) {
	kept := m.findings[:0:0]
	for _, f := range m.findings {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	m.findings = kept
	m.applyFilters()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.scanning {
		box := popupStyle.Width(55).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s  Rescanning...\n\nPlease wait", m.spinner.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(helpText()))
	}

	fs := m.displayFindings()
	high, med, low := report.Counts(fs)
	enabled := "on"
	if !m.prefs.Enabled {
		enabled = "off"
	}
	marker := "U+XXXX"
	if m.prefs.UseByteMarker {
		marker = "byte"
	}
	stats := fmt.Sprintf("Total: %-4d  |  %s %-4d  |  %s %-4d  |  %s %-4d  |  enabled: %s  marker: %s",
		len(fs),
		sevHighStyle.Render("High:"), high,
		sevMedStyle.Render("Med:"), med,
		sevLowStyle.Render("Low:"), low,
		enabled, marker,
	)
	if m.severityFilter != "" {
		stats += fmt.Sprintf("  [FILTER: sev:%s]", severityText(m.severityFilter))
	}
	statsHeader := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(stats)

	tableRender := tableBorderStyle.Width(m.width - 2).Render(m.table.View())

	var detail string
	if len(fs) == 0 {
		msg := "No invisible characters to review.\n\nPress 'r' to rescan"
		if len(m.findings) > 0 {
			msg = "No findings match filter.\n\nPress 'Esc' to clear filter"
		}
		detail = lipgloss.Place(m.width-2, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(msg))
	} else {
		detail = m.viewport.View()
	}
	detailRender := detailPaneBorderStyle.Width(m.width - 2).Render(detail)

	status := statusStyle.Render(fmt.Sprintf(" %s  |  last scan %s", m.statusMessage, m.lastScanTime.Format("15:04:05")))
	return lipgloss.JoinVertical(lipgloss.Left, statsHeader, tableRender, detailRender, status)
}

func helpText() string {
	keys := [][2]string{
		{"j/k, up/down", "move"},
		{"c", "clean the selected file in place"},
		{"y", "copy the selected marker"},
		{"e", "toggle the global enable flag"},
		{"m", "toggle code point / byte markers"},
		{"1/2/3", "filter high / medium / low"},
		{"esc", "clear filter"},
		{"r", "rescan"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys") + "\n\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%-14s %s\n", keyStyle.Render(k[0]), k[1]))
	}
	return b.String()
}
