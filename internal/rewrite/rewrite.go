// Package rewrite applies the clean pass to files on disk.
package rewrite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/varalys/ghostmark/internal/invisible"
)

// Outcome summarises one Apply call.
type Outcome struct {
	Path    string
	Changed bool
	Stats   invisible.Stats
}

// WouldChange reports whether Apply would rewrite path, and how many
// characters it would replace.
func WouldChange(path string) (bool, int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, 0, err
	}
	n := invisible.Count(string(b))
	return n > 0, n, nil
}

// Apply replaces every invisible code point in path with f's marker. The
// file is only written when something changed, via a temp file renamed over
// the original so readers never see a half-written document.
func Apply(path string, f invisible.Formatter) (Outcome, error) {
	out := Outcome{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return out, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	text := string(b)
	matches := invisible.Detect(text)
	if len(matches) == 0 {
		return out, nil
	}
	cleaned, st := invisible.CleanWithStats(text, matches, f)
	if err := writeAtomic(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return out, fmt.Errorf("rewrite %s: %w", path, err)
	}
	out.Changed = true
	out.Stats = st
	return out, nil
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".ghostmark-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name) // no-op after a successful rename
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(name, perm); err != nil {
		return err
	}
	return os.Rename(name, path)
}
