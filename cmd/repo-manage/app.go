package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/config"
	"github.com/satococoa/repo-manage/internal/errors"
	"github.com/satococoa/repo-manage/internal/log"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "repo-manage",
		Usage: "Manage a collection of GitHub repositories",
		Description: "repo-manage works on a directory of checkouts belonging to one GitHub " +
			"organization or user: listing and cloning repositories, keeping checkouts up to " +
			"date, inspecting open pull requests and recent events, and running commands " +
			"across every checkout.",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "org",
				Usage: "Organization or user owning the repositories (default: name of the root directory)",
			},
			&cli.StringFlag{
				Name:  "root",
				Value: ".",
				Usage: "Directory holding the collection of checkouts",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log more; repeat for debug output",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Log less; repeat to silence the logger",
			},
		},
		Commands: []*cli.Command{
			NewVersionCommand(),
			NewListCommand(),
			NewListPRsCommand(),
			NewCloneCommand(),
			NewUpdateCommand(),
			NewEventsCommand(),
			NewExecCommand(),
			NewInitCommand(),
		},
	}
}

// collectionRoot resolves the global --root flag to an absolute
// directory.
func collectionRoot(cmd *cli.Command) (string, error) {
	root, err := filepath.Abs(cmd.Root().String("root"))
	if err != nil {
		return "", errors.DirectoryAccessFailed("resolve", cmd.Root().String("root"), err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", errors.DirectoryAccessFailed("access", root, err)
	}
	if !info.IsDir() {
		return "", errors.NotADirectory(root)
	}
	return root, nil
}

// loadCollectionConfig loads .repo-manage.yml from the collection
// root.
func loadCollectionConfig(root string) (*config.Config, error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, errors.ConfigLoadFailed(filepath.Join(root, config.ConfigFileName), err)
	}
	return cfg, nil
}

// resolveOrg picks the owner to talk to GitHub about: the --org flag,
// then the configuration, then the name of the collection root.
func resolveOrg(cmd *cli.Command, cfg *config.Config, root string) string {
	if cmd.Root().IsSet("org") {
		return cmd.Root().String("org")
	}
	if cfg != nil && cfg.Org != "" {
		return cfg.Org
	}
	return filepath.Base(root)
}

// newLogger builds the console logger from the global verbosity flags.
func newLogger(cmd *cli.Command) *log.Logger {
	level := log.LevelFromVerbosity(cmd.Root().Count("verbose"), cmd.Root().Count("quiet"))
	return log.New(os.Stderr, level)
}
