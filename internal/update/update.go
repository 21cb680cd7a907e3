// Package update checks GitHub releases for a newer ghostmark and can
// replace the running binary.
package update

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	repoSlug      = "varalys/ghostmark"
	cacheFileName = "update.json"
)

const lookupTimeout = 2 * time.Second

// swapped in tests
var detectLatest = func() (string, error) {
	rel, found, err := selfupdate.DetectLatest(repoSlug)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.New("no release found")
	}
	return rel.Version.String(), nil
}

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

func configDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "ghostmark")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "ghostmark")
}

func loadCache() (cache, error) {
	var c cache
	dir := configDir()
	if dir == "" {
		return c, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return c, err
	}
	_ = json.Unmarshal(b, &c)
	return c, nil
}

func saveCache(c cache) {
	dir := configDir()
	if dir == "" {
		return
	}
	_ = os.MkdirAll(dir, 0755)
	b, _ := json.MarshalIndent(c, "", "  ")
	_ = os.WriteFile(filepath.Join(dir, cacheFileName), b, 0644)
}

// latestVersionOnline bounds the release lookup so a slow network never
// delays a scan by more than lookupTimeout.
func latestVersionOnline() (string, error) {
	type result struct {
		version string
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := detectLatest()
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.version, r.err
	case <-time.After(lookupTimeout):
		return "", errors.New("release lookup timed out")
	}
}

// Check returns (latest, isNewer, error). It uses a 24h cache and skips in CI.
func Check(current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	current = normalize(current)
	c, _ := loadCache()
	latest := c.Latest
	if time.Since(c.LastChecked) > 24*time.Hour || latest == "" {
		if v, err := latestVersionOnline(); err == nil {
			latest = normalize(v)
			c.Latest = latest
			c.LastChecked = time.Now()
			saveCache(c)
		}
	}
	if latest == "" || current == "" {
		return latest, false, nil
	}
	return latest, compare(latest, current) > 0, nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "v")
}

// compare orders two versions by semver precedence. Unparseable versions
// sort below everything else.
func compare(a, b string) int {
	va, errA := semver.ParseTolerant(a)
	vb, errB := semver.ParseTolerant(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

// SelfUpdate replaces the running binary with the latest release when it is
// newer than current, returning the version now installed.
func SelfUpdate(current string) (string, error) {
	ver, err := semver.ParseTolerant(current)
	if err != nil {
		ver = semver.MustParse("0.0.0")
	}
	// the selfupdate API still takes the pre-module semver type
	latest, err := selfupdate.UpdateSelf(semver3.MustParse(ver.String()), repoSlug)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}
