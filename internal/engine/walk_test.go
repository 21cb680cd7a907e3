package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varalys/ghostmark/internal/ignore"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

func walkPaths(t *testing.T, cfg Config) []string {
	t.Helper()
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	var got []string
	err := Walk(context.Background(), cfg, ign, func(path string, _ []byte) { got = append(got, path) })
	require.NoError(t, err)
	sort.Strings(got)
	return got
}

func TestWalk_WithIncludeExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":      "hello",
		"b.go":       "package main\n",
		"c.md":       "doc",
		"sub/d.go":   "package sub\n",
		"sub/e.json": "{}",
	})

	got := walkPaths(t, Config{Root: dir, IncludeGlobs: "**/*.go", MaxBytes: 1 << 20})
	assert.Equal(t, []string{"b.go", "sub/d.go"}, got)

	got = walkPaths(t, Config{Root: dir, ExcludeGlobs: "*.md,sub/**", MaxBytes: 1 << 20})
	assert.Equal(t, []string{"a.txt", "b.go"}, got)
}

func TestWalk_IgnoreFileDirectiveAndBinary(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".ghostmarkignore":    "generated/\nskip.txt\n",
		"keep.txt":            "text",
		"skip.txt":            "text",
		"generated/x.txt":     "text",
		"opted-out.txt":       "// ghostmark:ignore-file\n\u200b",
		"blob.dat":            "ab\x00cd",
		"node_modules/m/i.js": "x",
	})

	got := walkPaths(t, Config{Root: dir, DefaultExcludes: true})
	assert.Equal(t, []string{".ghostmarkignore", "keep.txt"}, got)

	// without default excludes node_modules is walked
	got = walkPaths(t, Config{Root: dir})
	assert.Contains(t, got, "node_modules/m/i.js")
}

func TestWalk_DotGitHubIsScanned(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".git/config":               "[core]\n",
		".github/workflows/ci.yml":  "run: echo \u202e\n",
		".gitlab/issue_template.md": "text\n",
	})

	got := walkPaths(t, Config{Root: dir, DefaultExcludes: true})
	assert.Equal(t, []string{".github/workflows/ci.yml", ".gitlab/issue_template.md"}, got)
}

func TestWalk_MaxBytesAndOwnFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"small.txt":              "ok",
		"large.txt":              string(make([]byte, 64)) + "x",
		".ghostmarkcache.json":   "{}",
		".ghostmark_audit.jsonl": "{\"scan_id\":\"x\u200b\"}",
	})
	got := walkPaths(t, Config{Root: dir, MaxBytes: 16})
	assert.Equal(t, []string{"small.txt"}, got)
}

func TestWalk_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a", "b.txt": "b"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Walk(ctx, Config{Root: dir}, ignore.Matcher{}, func(string, []byte) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountTargets(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".ghostmarkignore": "ignored.txt\n",
		"a.txt":            "ok",
		"ignored.txt":      "x",
		"big.bin":          string(make([]byte, 2048)),
		"vendor/v.go":      "package v",
	})
	n, err := CountTargets(Config{Root: dir, MaxBytes: 1 << 20, DefaultExcludes: true})
	require.NoError(t, err)
	// a.txt, big.bin and the ignore file itself; content sniffing is not applied
	assert.Equal(t, 3, n)
}

func TestDefaultFileExcludes(t *testing.T) {
	cases := map[string]bool{
		"web/app.min.js":         true,
		"assets/icons.woff2":     true,
		"package-lock.json":      true,
		"sub/cargo.lock":         true,
		"src/main.go":            false,
		"docs/readme.md":         false,
		"nested/.ds_store":       true,
		"deep/path/font.ttf.txt": false,
	}
	for p, want := range cases {
		assert.Equal(t, want, isDefaultFileExcluded(p), p)
	}
}
