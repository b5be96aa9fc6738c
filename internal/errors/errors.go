// Package errors provides user-facing error constructors with
// actionable guidance.
package errors

import (
	"errors"
	"fmt"
)

// TokenNotFound returns an error when no GitHub token can be resolved.
func TokenNotFound() error {
	msg := `no GitHub token found

Solutions:
  • Export a token: export GITHUB_TOKEN=<token>
  • Or export GH_TOKEN=<token>
  • Or sign in with the GitHub CLI: gh auth login`
	return errors.New(msg)
}

// ExecutableNotFound returns an error when a required executable is not
// on PATH.
func ExecutableNotFound(name string) error {
	msg := fmt.Sprintf(`required executable '%s' not found in PATH

Solutions:
  • Install '%s' and make sure it is on your PATH`, name, name)

	if name == "gh" {
		msg += `
  • See https://cli.github.com for installation instructions`
	}
	return errors.New(msg)
}

// OwnerNotFound returns an error when a name matches neither an
// organization nor a user on GitHub.
func OwnerNotFound(owner string) error {
	msg := fmt.Sprintf(`'%s' is neither an organization nor a user

Solutions:
  • Check the spelling of the name
  • Pass the owner explicitly: repo-manage --org <name> ...
  • Make sure your token can see the organization`, owner)
	return errors.New(msg)
}

// NotADirectory returns an error when a collection root is not a
// directory.
func NotADirectory(path string) error {
	msg := fmt.Sprintf(`'%s' is not a directory

Solutions:
  • Point --root at the directory containing your checkouts
  • Create it first: mkdir -p '%s'`, path, path)
	return errors.New(msg)
}

// DirectoryAccessFailed returns an error when a filesystem operation on
// a path fails.
func DirectoryAccessFailed(operation, path string, err error) error {
	return fmt.Errorf("failed to %s '%s': %w", operation, path, err)
}

// ConfigLoadFailed returns an error when the configuration file cannot
// be read or is invalid.
func ConfigLoadFailed(path string, err error) error {
	msg := fmt.Sprintf(`failed to load configuration from '%s'

Solutions:
  • Fix the reported problem in the file
  • Or delete it and start over: repo-manage init

Original error: %v`, path, err)
	return errors.New(msg)
}

// ConfigAlreadyExists returns an error when init would overwrite an
// existing configuration file.
func ConfigAlreadyExists(path string) error {
	msg := fmt.Sprintf(`configuration file already exists at '%s'

Solutions:
  • Edit the existing file directly
  • Or remove it first if you want a fresh start`, path)
	return errors.New(msg)
}

// CloneFailed returns an error when cloning a repository fails.
func CloneFailed(repo string, err error) error {
	msg := fmt.Sprintf(`failed to clone '%s'

Solutions:
  • Check your network connection
  • Make sure your token can read the repository
  • Verify 'gh auth status' reports a working login

Original error: %v`, repo, err)
	return errors.New(msg)
}

// InvalidDuration returns an error when a duration option does not
// parse as ISO 8601.
func InvalidDuration(option, value string, err error) error {
	msg := fmt.Sprintf(`invalid ISO 8601 duration %q for %s

Solutions:
  • Use an ISO 8601 duration such as P7D (7 days) or PT12H (12 hours)
  • Date and time parts combine as in P1DT12H

Original error: %v`, value, option, err)
	return errors.New(msg)
}

// InvalidAuthorPattern returns an error when an author filter is not a
// valid regular expression.
func InvalidAuthorPattern(pattern string, err error) error {
	msg := fmt.Sprintf(`invalid author pattern %q

Solutions:
  • Author filters are regular expressions, e.g. 'dependabot\[bot\]'
  • Escape special characters with a backslash

Original error: %v`, pattern, err)
	return errors.New(msg)
}

// ListTargetRequired returns an error when list is invoked without
// choosing what to list.
func ListTargetRequired() error {
	msg := `nothing to list

Solutions:
  • Pass --local to list the checkouts under the collection root
  • Pass --remote to list the repositories on GitHub
  • Or pass both`
	return errors.New(msg)
}

// EventsTargetConflict returns an error when both --org and --root are
// given to the events command.
func EventsTargetConflict() error {
	msg := `both --org and --root were given

The events command shows one target at a time:
  • --org <name> shows the organization's event feed
  • --root <dir> shows events for the repository at <dir>, or for the
    directory's name when it is not a repository`
	return errors.New(msg)
}

// HookExecutionFailed returns an error when a post-clone hook fails.
func HookExecutionFailed(hookType string, err error) error {
	return fmt.Errorf("failed to execute %s hook: %w", hookType, err)
}
