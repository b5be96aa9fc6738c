// Package git locates the repository checkouts that make up a
// collection.
package git

import (
	"fmt"
	"os"
	"path/filepath"
)

// Repository is one checkout inside the collection root.
type Repository struct {
	Name string
	Path string
}

// Discover returns every direct subdirectory of root that contains a
// .git entry, in name order. The entry may be a directory or a gitfile,
// so linked worktrees and submodule checkouts count too. Anything else
// under root is ignored.
func Discover(root string) ([]Repository, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var repos []Repository
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			continue
		}
		repos = append(repos, Repository{Name: entry.Name(), Path: path})
	}
	return repos, nil
}
