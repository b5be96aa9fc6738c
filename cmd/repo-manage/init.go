package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/config"
	"github.com/satococoa/repo-manage/internal/errors"
)

const configFileMode = 0o600

// NewInitCommand creates the init command definition
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration file",
		Description: "Creates a " + config.ConfigFileName + " configuration file at the " +
			"collection root with example settings and hooks.",
		Action: initCommand,
	}
}

func initCommand(_ context.Context, cmd *cli.Command) error {
	root, err := collectionRoot(cmd)
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return errors.ConfigAlreadyExists(configPath)
	}

	configContent := `# repo-manage configuration
version: "1.0"

# Organization or user the collection belongs to. Defaults to the name
# of the collection root directory.
# org: my-org

# Defaults for the events command
events:
  # Show events newer than this ISO 8601 duration
  newer_than: P7D

# Defaults for the list-prs command
pull_requests:
  # Authors to exclude (regular expressions)
  exclude_authors:
    - "dependabot.*"

# Hooks that run inside each repository after clone
hooks:
  post_clone:
    # Example: copy a shared file from the collection root
    # - type: copy
    #   from: shared/githooks/pre-push
    #   to: .git/hooks/pre-push

    # Example: run a command in the new checkout
    # - type: command
    #   command: git maintenance start

    # More examples (commented out):
    # - type: command
    #   command: npm install
    #   work_dir: web
    # - type: command
    #   command: make setup
    #   env:
    #     SETUP_MODE: fast
`

	if err := os.WriteFile(configPath, []byte(configContent), configFileMode); err != nil {
		return errors.DirectoryAccessFailed("create configuration file", configPath, err)
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintf(w, "Configuration file created: %s\n", configPath)
	fmt.Fprintln(w, "Edit this file to customize how the collection is managed.")
	return nil
}
