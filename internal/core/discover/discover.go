// Package discover locates git repositories under configured root
// directories.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// maxDepth bounds the walk below each root. Deeply nested checkouts
// (vendored trees, node_modules) are not worth the scan cost.
const maxDepth = 5

// Repo is a discovered repository.
type Repo struct {
	// Path is the absolute worktree path.
	Path string
	// Name is the directory basename, used for display.
	Name string
}

// Scan walks each root looking for directories that contain a ".git"
// entry. A matched repository is not descended into, so nested worktrees
// under a repository are not reported separately. Ignore patterns are
// matched against the repository path relative to its root, with
// doublestar semantics. Missing roots are skipped silently. Results are
// sorted by name, case-insensitive, ties broken by path.
func Scan(roots, ignore []string) ([]Repo, error) {
	seen := make(map[string]bool)
	var repos []Repo

	for _, root := range roots {
		root = filepath.Clean(root)
		if _, err := os.Stat(root); err != nil {
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtree, keep going.
				return fs.SkipDir
			}
			if !d.IsDir() {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return fs.SkipDir
			}

			if path != root {
				// Hidden directories never hold repos we want to list.
				if strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				if depth(rel) > maxDepth {
					return fs.SkipDir
				}
				if ignored(rel, ignore) {
					return fs.SkipDir
				}
			}

			// ".git" may be a file for linked worktrees.
			if _, statErr := os.Stat(filepath.Join(path, ".git")); statErr == nil {
				if !seen[path] {
					seen[path] = true
					repos = append(repos, Repo{Path: path, Name: filepath.Base(path)})
				}
				return fs.SkipDir
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(repos, func(i, j int) bool {
		a, b := strings.ToLower(repos[i].Name), strings.ToLower(repos[j].Name)
		if a != b {
			return a < b
		}
		return repos[i].Path < repos[j].Path
	})

	return repos, nil
}

func depth(rel string) int {
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func ignored(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
