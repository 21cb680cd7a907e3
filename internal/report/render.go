package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/varalys/ghostmark/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	FilesSkipped int
}

var (
	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	medStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// PrintText writes one line per finding: severity, location, code point and
// name, then the source line with markers inlined.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No invisible characters found ✅")
	} else {
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			fmt.Fprintf(w, "%-6s %s:%d:%d  %s %s\n", severityLabel(f.Severity, opts.NoColor), f.Path, f.Line, f.Column, f.CodePoint, f.Name)
			if f.Context != "" {
				fmt.Fprintf(w, "       %s\n", f.Context)
			}
		}
	}
	printFooter(w, findings, opts)
}

// PrintTable renders findings as a bordered table.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No invisible characters found ✅")
		printFooter(w, findings, opts)
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("Severity", "File", "Line", "Col", "Code Point", "Name", "Syntax")
	for _, f := range findings {
		_ = table.Append([]string{
			severityLabel(f.Severity, opts.NoColor),
			f.Path,
			strconv.Itoa(f.Line),
			strconv.Itoa(f.Column),
			f.CodePoint,
			f.Name,
			f.Syntax,
		})
	}
	_ = table.Render()
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	high, med, low := Counts(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d)\n", len(findings), high, med, low)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
	if opts.FilesSkipped > 0 {
		fmt.Fprintf(w, "Files skipped: %d\n", opts.FilesSkipped)
	}
}

// Counts tallies findings by severity.
func Counts(findings []types.Finding) (high, med, low int) {
	for _, f := range findings {
		switch f.Severity {
		case types.SevHigh:
			high++
		case types.SevMed:
			med++
		default:
			low++
		}
	}
	return high, med, low
}

func severityLabel(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s {
	case types.SevHigh:
		return highStyle.Render(string(s))
	case types.SevMed:
		return medStyle.Render(string(s))
	default:
		return lowStyle.Render(string(s))
	}
}
