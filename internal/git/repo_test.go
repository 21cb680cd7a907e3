package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFiles(t *testing.T, repo *gogit.Repository, dir string, files map[string]string, msg string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestFilesAt(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	commitFiles(t, repo, dir, map[string]string{
		"a.txt":     "clean\n",
		"src/b.go":  "package b // \u200b\n",
		"image.bin": "\x00\x01\x02",
	}, "first")
	commitFiles(t, repo, dir, map[string]string{"a.txt": "changed\u2066\n"}, "second")

	head, err := FilesAt(dir, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "changed\u2066\n", string(head["a.txt"]))
	assert.Contains(t, head, "src/b.go")
	assert.NotContains(t, head, "image.bin")

	prev, err := FilesAt(dir, "HEAD~1", 0)
	require.NoError(t, err)
	assert.Equal(t, "clean\n", string(prev["a.txt"]))

	small, err := FilesAt(dir, "HEAD", 12)
	require.NoError(t, err)
	assert.Contains(t, small, "a.txt")
	assert.NotContains(t, small, "src/b.go")

	_, err = FilesAt(dir, "no-such-branch", 0)
	assert.Error(t, err)
}

func TestFilesAt_Subdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	commitFiles(t, repo, dir, map[string]string{
		"top.txt":       "top\n",
		"src/a.go":      "package src\n",
		"src/x/b.go":    "package x\n",
		"srcother/c.go": "package c\n",
	}, "init")

	got, err := FilesAt(filepath.Join(dir, "src"), "HEAD", 0)
	require.NoError(t, err)
	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"a.go", "x/b.go"}, keys)
}

func TestFilesAt_NotARepo(t *testing.T) {
	_, err := FilesAt(t.TempDir(), "HEAD", 0)
	assert.Error(t, err)
}

func TestRepoMetadata(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	commitFiles(t, repo, dir, map[string]string{"README": "hi\n"}, "init")
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/widgets.git"}})
	require.NoError(t, err)

	name, commit, branch := RepoMetadata(dir)
	assert.Equal(t, "acme/widgets", name)
	assert.Len(t, commit, 40)
	assert.NotEmpty(t, branch)
}

func TestShortRemote(t *testing.T) {
	assert.Equal(t, "acme/widgets", shortRemote("https://github.com/acme/widgets.git"))
	assert.Equal(t, "team/repo", shortRemote("git@gitlab.example.com:team/repo.git"))
	assert.Equal(t, "https://example.com/x", shortRemote("https://example.com/x"))
}
