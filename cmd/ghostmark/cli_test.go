package ghostmark

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varalys/ghostmark/internal/config"
	"github.com/varalys/ghostmark/internal/engine"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/report"
)

// isolate points every per-user location at a temp dir and turns off
// network and color.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("CI", "1")
	t.Setenv("NO_COLOR", "1")
	return home
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errb bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errb)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errb.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCheck_Stdin(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "a\u200bb\n", "check")
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "U+200B")
	assert.Contains(t, out, "ZERO WIDTH SPACE")
	assert.Contains(t, out, "<stdin>:1:2")

	out, _, err = runCLI(t, "plain text\n", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "No invisible characters found")
}

func TestCheck_ExcludedSuffixAndFailOn(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "a\u200bb", "check", "--exclude-suffix", ".md", "--stdin-name", "notes.md")
	require.NoError(t, err)

	// variation selectors are low severity
	_, _, err = runCLI(t, "a\ufe0fb", "check", "--fail-on", "high")
	require.NoError(t, err)
	_, _, err = runCLI(t, "a\u2066b", "check", "--fail-on", "high")
	require.ErrorIs(t, err, errFindings)
}

func TestCheck_FilesJSON(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	dirty := writeFile(t, dir, "a.txt", "one\ntwo\u2067three\n")
	clean := writeFile(t, dir, "b.txt", "fine\n")

	out, _, err := runCLI(t, "", "check", "--json", dirty, clean)
	require.ErrorIs(t, err, errFindings)
	var rep report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Findings, 1)
	f := rep.Findings[0]
	assert.Equal(t, filepath.ToSlash(dirty), f.Path)
	assert.Equal(t, 7, f.Offset)
	assert.Equal(t, 2, f.Line)
	assert.Equal(t, "U+2067", f.CodePoint)
	assert.EqualValues(t, "high", f.Severity)
	assert.Equal(t, 2, rep.FilesScanned)

	_, _, err = runCLI(t, "", "check", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestClean_Stdout(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "A\u200bB", "clean")
	require.NoError(t, err)
	assert.Equal(t, "AU+200B B", out)

	out, _, err = runCLI(t, "A\u200bB", "clean", "--byte-marker")
	require.NoError(t, err)
	assert.Equal(t, "A0B B", out)

	out, _, err = runCLI(t, "A\u200bB", "clean", "--exclude-suffix", ".txt", "--stdin-name", "x.txt")
	require.NoError(t, err)
	assert.Equal(t, "A\u200bB", out)
}

func TestClean_Copy(t *testing.T) {
	isolate(t)
	var copied string
	old := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = old })

	_, stderr, err := runCLI(t, "x\ufeffy", "clean", "--copy")
	require.NoError(t, err)
	assert.Equal(t, "xU+FEFF y", copied)
	assert.Contains(t, stderr, "copied")
}

func TestClean_FilesDryRunThenInPlace(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	p := writeFile(t, dir, "doc.md", "A\u200bB\u200b\n")

	out, _, err := runCLI(t, "", "clean", "--dry-run", p)
	require.NoError(t, err)
	assert.Contains(t, out, "would clean 2 characters")
	b, _ := os.ReadFile(p)
	assert.Equal(t, "A\u200bB\u200b\n", string(b))

	out, _, err = runCLI(t, "", "clean", "--stdout", p)
	require.NoError(t, err)
	assert.Equal(t, "AU+200B BU+200B \n", out)

	out, _, err = runCLI(t, "", "clean", p)
	require.NoError(t, err)
	assert.Contains(t, out, "cleaned 2 characters in "+p)
	b, _ = os.ReadFile(p)
	assert.Equal(t, "AU+200B BU+200B \n", string(b))
}

func TestEnableDisableStatus(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "", "disable")
	require.NoError(t, err)
	assert.Equal(t, "ghostmark disabled\n", out)

	_, stderr, err := runCLI(t, "a\u200bb", "check")
	require.NoError(t, err)
	assert.Contains(t, stderr, "disabled")

	out, _, err = runCLI(t, "A\u200bB", "clean")
	require.NoError(t, err)
	assert.Equal(t, "A\u200bB", out)

	out, _, err = runCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "enabled:           off")

	_, _, err = runCLI(t, "", "enable")
	require.NoError(t, err)
	out, _, err = runCLI(t, "", "status", "--byte-marker", "--exclude-suffix", ".lock,.min.js")
	require.NoError(t, err)
	assert.Contains(t, out, "enabled:           on")
	assert.Contains(t, out, "byte (lossy)")
	assert.Contains(t, out, ".lock, .min.js")
}

func TestExplain(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "", "explain", "U+2066")
	require.NoError(t, err)
	assert.Contains(t, out, "LEFT-TO-RIGHT ISOLATE")
	assert.Contains(t, out, "severity: high")
	assert.Contains(t, out, `"U+2066 "`)

	out, _, err = runCLI(t, "", "explain", "0x41")
	require.NoError(t, err)
	assert.Contains(t, out, "U+0041 LATIN CAPITAL LETTER A is not flagged")

	out, _, err = runCLI(t, "", "explain", `a\u200bb`)
	require.NoError(t, err)
	assert.Contains(t, out, "byte 1: U+200B ZERO WIDTH SPACE")

	out, _, err = runCLI(t, "", "explain", "--json", "a\u00adb\u200dc")
	require.NoError(t, err)
	var exps []explanation
	require.NoError(t, json.Unmarshal([]byte(out), &exps))
	require.Len(t, exps, 2)
	assert.Equal(t, "U+00AD", exps[0].CodePoint)
	require.NotNil(t, exps[1].Offset)
	assert.Equal(t, 4, *exps[1].Offset)
}

func TestCodePoints(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "", "codepoints", "--json")
	require.NoError(t, err)
	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, len(invisible.Exact())+len(invisible.Ranges()))

	out, _, err = runCLI(t, "", "codepoints")
	require.NoError(t, err)
	assert.Contains(t, out, "U+E000..U+F8FF")
}

func TestScan_OutputsAndFail(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n\n// note\u200b\nfunc main() {}\n")
	writeFile(t, dir, "README.md", "clean\n")

	out, _, err := runCLI(t, "", "scan", "-p", dir, "--json", "--no-cache")
	require.NoError(t, err)
	var rep report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "main.go", rep.Findings[0].Path)
	assert.Equal(t, 3, rep.Findings[0].Line)
	assert.Equal(t, "comment", rep.Findings[0].Syntax)

	out, _, err = runCLI(t, "", "scan", "-p", dir, "--sarif", "--no-cache")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	out, stderr, err := runCLI(t, "", "scan", "-p", dir, "--text", "--fail", "--no-cache")
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "main.go:3:8")
	assert.Contains(t, stderr, "Scanning")

	_, _, err = runCLI(t, "", "scan", "-p", dir, "--fail", "--fail-on", "high", "--no-cache")
	require.NoError(t, err)
}

func TestScan_Baseline(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x\u200by\n")

	out, _, err := runCLI(t, "", "baseline", "update", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline updated (1 findings)")
	assert.FileExists(t, filepath.Join(dir, baselineFile))

	out, _, err = runCLI(t, "", "scan", "-p", dir, "--fail", "--json")
	require.NoError(t, err)
	var rep report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Empty(t, rep.Findings)

	writeFile(t, dir, "b.txt", "p\u2060q\n")
	_, _, err = runCLI(t, "", "scan", "-p", dir, "--fail", "--json")
	require.ErrorIs(t, err, errFindings)
}

func TestScan_LocalConfigExcludesSuffix(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, ".ghostmark.yml", "excluded_suffixes: [\".txt\"]\n")
	writeFile(t, dir, "a.txt", "x\u200by\n")

	out, _, err := runCLI(t, "", "scan", "-p", dir, "--json", "--fail")
	require.NoError(t, err)
	var rep report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Empty(t, rep.Findings)
	assert.Equal(t, 1, rep.FilesSkipped)
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "ghostmark.yml")

	out, _, err := runCLI(t, "", "config", "init", "--output", p, "--byte-marker", "--exclude-suffix", ".lock", "--fail-on", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	fc, err := config.LoadFile(p)
	require.NoError(t, err)
	require.NotNil(t, fc.UseByteMarker)
	assert.True(t, *fc.UseByteMarker)
	assert.Equal(t, []string{".lock"}, fc.ExcludedSuffixes)
	require.NotNil(t, fc.FailOn)
	assert.Equal(t, "high", *fc.FailOn)

	_, _, err = runCLI(t, "", "config", "init", "--output", p)
	require.Error(t, err)
	_, _, err = runCLI(t, "", "config", "init", "--output", p, "--force", "--fail-on", "extreme")
	require.Error(t, err)
}

func TestCIInit(t *testing.T) {
	isolate(t)
	t.Chdir(t.TempDir())

	out, _, err := runCLI(t, "", "ci", "init", "--provider", "github")
	require.NoError(t, err)
	assert.Contains(t, out, ".github/workflows/ghostmark.yml")
	b, err := os.ReadFile(filepath.Join(".github", "workflows", "ghostmark.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "upload-sarif")

	_, _, err = runCLI(t, "", "ci", "init", "--provider", "jenkins")
	require.Error(t, err)
}

func TestReviewActions(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, "sub/a.txt", "x\u200by\n")

	cfg := engine.Config{Root: dir, Options: config.DefaultOptions(), NoCache: true}
	actions := reviewActions(rootCmd, cfg)

	fs, err := actions.Rescan()
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "sub/a.txt", fs[0].Path)

	src, err := actions.Source("sub/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x\u200by\n", src)

	o, err := actions.Clean("sub/a.txt", invisible.CodePointMarker)
	require.NoError(t, err)
	assert.True(t, o.Changed)
	src, _ = actions.Source("sub/a.txt")
	assert.Equal(t, "xU+200B y\n", src)
}

func TestCompletionAndVersion(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "ghostmark")

	out, _, err = runCLI(t, "", "version", "--no-update-check")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ghostmark v"))
}

func TestHelpers(t *testing.T) {
	r, ok := parseCodePointArg("U+E0100")
	assert.True(t, ok)
	assert.Equal(t, rune(0xE0100), r)
	_, ok = parseCodePointArg("U+110000")
	assert.False(t, ok)
	_, ok = parseCodePointArg("hello")
	assert.False(t, ok)

	assert.Equal(t, "a\u200bb", unescape(`a\u200bb`))
	assert.Equal(t, `C:\path`, unescape(`C:\path`))
	assert.Equal(t, `say "hi"`, unescape(`say "hi"`))

	s := "x"
	assert.Equal(t, "x", pickString("", &s, nil))
	assert.Equal(t, "cli", pickString("cli", &s, nil))
	f := false
	assert.False(t, pickBool(false, &f, nil))
	assert.Equal(t, "1.2.3", trimV("v1.2.3"))
}

func TestHistoryAndIgnore(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x\u200by\n")
	writeFile(t, dir, "fixtures/b.txt", "p\u2066q\n")

	out, _, err := runCLI(t, "", "history", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scan history yet")

	_, _, err = runCLI(t, "", "scan", "-p", dir, "--json")
	require.NoError(t, err)

	out, _, err = runCLI(t, "", "ignore", "-p", dir, "fixtures/")
	require.NoError(t, err)
	assert.Contains(t, out, "added fixtures/")
	out, _, err = runCLI(t, "", "ignore", "-p", dir, "fixtures/")
	require.NoError(t, err)
	assert.Contains(t, out, "already ignored")

	_, _, err = runCLI(t, "", "scan", "-p", dir, "--json")
	require.NoError(t, err)

	out, _, err = runCLI(t, "", "history", "-p", dir, "--json")
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.EqualValues(t, 1, recs[0]["total_findings"])
	assert.EqualValues(t, 2, recs[1]["total_findings"])

	out, _, err = runCLI(t, "", "history", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "worktree")

	_, _, err = runCLI(t, "", "history", "delete", "0", "-p", dir)
	require.NoError(t, err)
	out, _, err = runCLI(t, "", "history", "-p", dir, "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	assert.Len(t, recs, 1)
}
