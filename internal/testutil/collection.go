// Package testutil provides filesystem fixtures shared across tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateRepo creates a directory named name under root with a .git
// marker so discovery treats it as a checkout, and returns its path.
func CreateRepo(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(path, ".git"), 0o755))
	return path
}

// CreateCollection creates a temporary collection root containing the
// named checkouts.
func CreateCollection(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		CreateRepo(t, root, name)
	}
	return root
}

// WriteConfig writes content as the collection configuration file under
// root.
func WriteConfig(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".repo-manage.yml"), []byte(content), 0o600))
}
