package main

import (
	"context"
	"fmt"
	"io"
	"os"

	gogithub "github.com/google/go-github/v27/github"
	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/errors"
	"github.com/satococoa/repo-manage/internal/git"
	"github.com/satococoa/repo-manage/internal/remote"
)

// NewListCommand creates the list command definition
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List local checkouts and remote repositories",
		Description: "Lists the checkouts under the collection root, the repositories the " +
			"organization owns on GitHub, or both. Remote forks are annotated with their " +
			"upstream.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "List the checkouts under the collection root",
			},
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "List the repositories on GitHub",
			},
		},
		Action: listCommand,
	}
}

func listCommand(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("local") && !cmd.Bool("remote") {
		return errors.ListTargetRequired()
	}

	root, err := collectionRoot(cmd)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	if cmd.Bool("local") {
		if err := listLocal(w, root); err != nil {
			return err
		}
	}

	if cmd.Bool("remote") {
		cfg, err := loadCollectionConfig(root)
		if err != nil {
			return err
		}
		client, err := remote.NewClient(ctx)
		if err != nil {
			return err
		}
		return listRemote(ctx, w, client, resolveOrg(cmd, cfg, root))
	}
	return nil
}

func listLocal(w io.Writer, root string) error {
	repos, err := git.Discover(root)
	if err != nil {
		return errors.DirectoryAccessFailed("read", root, err)
	}
	for _, repo := range repos {
		fmt.Fprintln(w, repo.Name)
	}
	return nil
}

func listRemote(ctx context.Context, w io.Writer, client *gogithub.Client, org string) error {
	repos, err := remote.ListRepositories(ctx, client, org, true, false)
	if err != nil {
		return err
	}
	for _, repo := range repos {
		if repo.GetFork() {
			parent, err := remote.ParentFullName(ctx, client, repo)
			if err == nil && parent != "" {
				fmt.Fprintf(w, "%s (fork of: %s)\n", repo.GetFullName(), parent)
				continue
			}
		}
		fmt.Fprintln(w, repo.GetFullName())
	}
	return nil
}
