// Package ignore reads .ghostmarkignore files: one glob per line, '#'
// comments, and a trailing '/' to ignore a whole directory.
package ignore

import (
	"bufio"
	"os"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Matcher holds compiled ignore patterns. The zero value ignores nothing.
type Matcher struct {
	patterns []string
	dirs     []string
}

// Load reads patterns from file. A missing file yields an empty matcher and
// the open error.
func Load(file string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(file)
	if err != nil {
		return m, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m.Add(sc.Text())
	}
	return m, sc.Err()
}

// Add appends one pattern line.
func (m *Matcher) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	line = strings.TrimPrefix(line, "./")
	if strings.HasSuffix(line, "/") {
		m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
		return
	}
	m.patterns = append(m.patterns, line)
}

// Match reports whether the slash-separated relative path is ignored.
func (m Matcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	for _, d := range m.dirs {
		if rel == d || strings.HasPrefix(rel, d+"/") || strings.Contains(rel, "/"+d+"/") {
			return true
		}
	}
	base := path.Base(rel)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}
