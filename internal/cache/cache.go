// Package cache remembers which documents were clean on the last scan so an
// unchanged clean file can be skipped, and stores the last scan's findings
// for the review UI.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// DB maps a path relative to the scan root to the content hash it had when
// it last scanned clean.
type DB struct {
	Entries map[string]string `json:"entries"`
}

// dataPath prefers .git so cache files never end up committed.
func dataPath(root, name string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, name)
	}
	return filepath.Join(root, "."+name)
}

func defaultPath(root string) string {
	return dataPath(root, "ghostmarkcache.json")
}

// Load reads the cache for root. On any error it returns an empty, usable DB
// alongside the error.
func Load(root string) (DB, error) {
	var db DB
	f, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

// Save writes db for root.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(defaultPath(root), b, 0644)
}
