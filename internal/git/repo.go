// Package git reads documents straight out of a repository's object store,
// so a revision can be inspected without checking it out.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// validateRoot validates and normalizes a repository root path.
// Returns the cleaned absolute path or an error if invalid.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

func open(root string) (*gogit.Repository, error) {
	abs, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	return gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
}

// subdir returns root as a slash-separated prefix relative to the worktree
// of repo, or "" when root is the worktree itself.
func subdir(repo *gogit.Repository, root string) (string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no worktree to be inside of
		return "", nil
	}
	top, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if abs, err = filepath.EvalSymlinks(abs); err != nil {
		return "", err
	}
	rel, err := filepath.Rel(top, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the worktree %s", root, top)
	}
	return filepath.ToSlash(rel) + "/", nil
}

// FilesAt returns the non-binary files tracked at rev (a branch, tag, hash
// or expression such as "HEAD~2"), keyed by slash-separated path relative
// to root. When root is a subdirectory of the worktree only files beneath
// it are returned. Files larger than maxBytes are skipped when maxBytes > 0.
func FilesAt(root, rev string, maxBytes int64) (map[string][]byte, error) {
	repo, err := open(root)
	if err != nil {
		return nil, err
	}
	prefix, err := subdir(repo, root)
	if err != nil {
		return nil, err
	}
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	out := map[string][]byte{}
	err = tree.Files().ForEach(func(f *object.File) error {
		name, ok := strings.CutPrefix(f.Name, prefix)
		if !ok {
			return nil
		}
		if maxBytes > 0 && f.Size > maxBytes {
			return nil
		}
		if bin, err := f.IsBinary(); err != nil || bin {
			return nil
		}
		s, err := f.Contents()
		if err != nil {
			return err
		}
		out[name] = []byte(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RepoMetadata returns (repo, commit, branch) best-effort for the given root.
// Empty strings are returned for anything that cannot be resolved.
func RepoMetadata(root string) (string, string, string) {
	repo, err := open(root)
	if err != nil {
		return "", "", ""
	}
	name := ""
	if rem, err := repo.Remote("origin"); err == nil && len(rem.Config().URLs) > 0 {
		name = shortRemote(rem.Config().URLs[0])
	}
	commit, branch := "", ""
	if head, err := repo.Head(); err == nil {
		commit = head.Hash().String()
		if head.Name().IsBranch() {
			branch = head.Name().Short()
		}
	}
	return name, commit, branch
}

// shortRemote trims a remote URL down to owner/name when it can.
func shortRemote(u string) string {
	s := strings.TrimSuffix(strings.TrimSpace(u), ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.Contains(s[i:], "//") {
		return s[i+1:]
	}
	return s
}
