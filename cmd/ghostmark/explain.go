package ghostmark

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/report"
)

// explanation describes one code point.
type explanation struct {
	CodePoint string `json:"code_point"`
	Name      string `json:"name"`
	Invisible bool   `json:"invisible"`
	Category  string `json:"category,omitempty"`
	Severity  string `json:"severity,omitempty"`
	Marker    string `json:"marker,omitempty"`
	Offset    *int   `json:"offset,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "explain <codepoint|text>",
		Short: "Explain a code point (U+200B, 0x200B) or every invisible character in a piece of text",
		Example: `  ghostmark explain U+202E
  ghostmark explain 'hello\u200bworld'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExplain,
	}
	rootCmd.AddCommand(cmd)

	list := &cobra.Command{
		Use:   "codepoints",
		Short: "List every code point ghostmark flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listCodePoints(cmd.OutOrStdout())
		},
	}
	rootCmd.AddCommand(list)
}

func runExplain(cmd *cobra.Command, args []string) error {
	cwd, _ := os.Getwd()
	lcfg, gcfg := loadConfigs(cwd)
	opts := resolveOptions(cmd, lcfg, gcfg)
	f := opts.Formatter()
	arg := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if r, ok := parseCodePointArg(arg); ok {
		return writeExplanations(out, []explanation{explain(r, f)})
	}

	text := unescape(arg)
	matches := invisible.Detect(text)
	var exps []explanation
	for _, m := range matches {
		e := explain(m.CodePoint, f)
		off := m.Index
		e.Offset = &off
		exps = append(exps, e)
	}
	if !flagJSON {
		if len(matches) == 0 {
			_, _ = fmt.Fprintln(out, "No invisible characters found ✅")
			return nil
		}
		_, _ = fmt.Fprintln(out, report.Annotate(text, matches, noColor(out, lcfg, gcfg)))
	}
	return writeExplanations(out, exps)
}

func explain(r rune, f invisible.Formatter) explanation {
	e := explanation{
		CodePoint: engine.CodePointLabel(r),
		Name:      invisible.Name(r),
		Invisible: invisible.IsInvisible(r),
	}
	if e.Invisible {
		cat := invisible.CategoryOf(r)
		e.Category = string(cat)
		e.Severity = string(engine.SeverityOf(cat))
		e.Marker = f(r)
	}
	return e
}

func writeExplanations(w io.Writer, exps []explanation) error {
	if flagJSON {
		if exps == nil {
			exps = []explanation{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exps)
	}
	for _, e := range exps {
		if e.Offset != nil {
			_, _ = fmt.Fprintf(w, "byte %d: ", *e.Offset)
		}
		if !e.Invisible {
			_, _ = fmt.Fprintf(w, "%s %s is not flagged\n", e.CodePoint, e.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s %s\n  category: %s\n  severity: %s\n  marker:   %q\n", e.CodePoint, e.Name, e.Category, e.Severity, e.Marker)
	}
	return nil
}

// parseCodePointArg accepts U+XXXX, u+XXXX and 0xXXXX.
func parseCodePointArg(s string) (rune, bool) {
	s = strings.TrimSpace(s)
	var hex string
	switch {
	case strings.HasPrefix(s, "U+"), strings.HasPrefix(s, "u+"),
		strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		hex = s[2:]
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > 0x10FFFF {
		return 0, false
	}
	return rune(v), true
}

// unescape interprets Go-style \u, \U and \x escapes so invisible characters
// can be typed on a command line. Text that does not unquote is used as is.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	if u, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`); err == nil {
		return u
	}
	return s
}

func listCodePoints(w io.Writer) error {
	if flagJSON {
		type row struct {
			Lo       string `json:"lo"`
			Hi       string `json:"hi,omitempty"`
			Name     string `json:"name,omitempty"`
			Category string `json:"category"`
		}
		var rows []row
		for _, r := range invisible.Exact() {
			rows = append(rows, row{Lo: engine.CodePointLabel(r), Name: invisible.Name(r), Category: string(invisible.CategoryOf(r))})
		}
		for _, rg := range invisible.Ranges() {
			rows = append(rows, row{Lo: engine.CodePointLabel(rg.Lo), Hi: engine.CodePointLabel(rg.Hi), Category: string(invisible.CategoryOf(rg.Lo))})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Code Point", "Name", "Category")
	for _, r := range invisible.Exact() {
		_ = table.Append([]string{engine.CodePointLabel(r), invisible.Name(r), string(invisible.CategoryOf(r))})
	}
	for _, rg := range invisible.Ranges() {
		span := engine.CodePointLabel(rg.Lo) + ".." + engine.CodePointLabel(rg.Hi)
		_ = table.Append([]string{span, "(range)", string(invisible.CategoryOf(rg.Lo))})
	}
	return table.Render()
}
