// Package remote talks to the GitHub API on behalf of the CLI.
package remote

import (
	"os"
	"os/exec"
	"strings"

	"github.com/satococoa/repo-manage/internal/errors"
)

// Variables to allow mocking in tests
var (
	lookupEnv   = os.LookupEnv
	lookPath    = exec.LookPath
	ghAuthToken = func() (string, error) {
		out, err := exec.Command("gh", "auth", "token").Output()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	}
)

// ResolveToken finds a GitHub token: GITHUB_TOKEN first, then GH_TOKEN,
// then the credentials stored by the GitHub CLI.
func ResolveToken() (string, error) {
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token, ok := lookupEnv(name); ok && token != "" {
			return token, nil
		}
	}

	if _, err := lookPath("gh"); err == nil {
		if token, err := ghAuthToken(); err == nil && token != "" {
			return token, nil
		}
	}

	return "", errors.TokenNotFound()
}
