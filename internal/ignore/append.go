package ignore

import (
	"bufio"
	"os"
	"strings"
)

// FileName is the per-root ignore file read by scans.
const FileName = ".ghostmarkignore"

// Append adds pattern to the ignore file at path, creating it if missing.
// It reports false when the pattern was already present.
func Append(path, pattern string) (bool, error) {
	pattern = strings.TrimSpace(pattern)
	needNewline := false
	if f, err := os.Open(path); err == nil {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) == pattern {
				_ = f.Close()
				return false, nil
			}
		}
		_ = f.Close()
		if b, err := os.ReadFile(path); err == nil && len(b) > 0 && b[len(b)-1] != '\n' {
			needNewline = true
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if needNewline {
		pattern = "\n" + pattern
	}
	if _, err := f.WriteString(pattern + "\n"); err != nil {
		return false, err
	}
	return true, nil
}
