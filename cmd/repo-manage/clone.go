package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	gogithub "github.com/google/go-github/v27/github"
	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/command"
	"github.com/satococoa/repo-manage/internal/config"
	"github.com/satococoa/repo-manage/internal/errors"
	"github.com/satococoa/repo-manage/internal/hooks"
	rmio "github.com/satococoa/repo-manage/internal/io"
	"github.com/satococoa/repo-manage/internal/log"
	"github.com/satococoa/repo-manage/internal/remote"
)

// NewCloneCommand creates the clone command definition
func NewCloneCommand() *cli.Command {
	return &cli.Command{
		Name:  "clone",
		Usage: "Clone the organization's repositories into the collection root",
		Description: "Clones every repository the organization owns with 'gh repo clone'. " +
			"Checkouts that already exist are skipped. Post-clone hooks from " +
			".repo-manage.yml run inside each fresh checkout.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "forks",
				Usage: "Also clone forked repositories",
			},
			&cli.BoolFlag{
				Name:  "archived",
				Usage: "Also clone archived repositories",
			},
		},
		Action: cloneCommand,
	}
}

func cloneCommand(ctx context.Context, cmd *cli.Command) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return errors.ExecutableNotFound("gh")
	}

	root, err := collectionRoot(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadCollectionConfig(root)
	if err != nil {
		return err
	}
	client, err := remote.NewClient(ctx)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	runner := command.NewRunner(rmio.NewFlushingWriter(w), os.Stderr)
	return cloneRepositories(ctx, w, newLogger(cmd), client, runner, cfg, resolveOrg(cmd, cfg, root), root,
		cmd.Bool("forks"), cmd.Bool("archived"))
}

func cloneRepositories(ctx context.Context, w io.Writer, logger *log.Logger, client *gogithub.Client,
	runner command.Runner, cfg *config.Config, org, root string, includeForks, includeArchived bool,
) error {
	repos, err := remote.ListRepositories(ctx, client, org, includeForks, includeArchived)
	if err != nil {
		return err
	}

	hookExecutor := hooks.NewExecutor(cfg, root)
	for _, repo := range repos {
		dir := filepath.Join(root, repo.GetName())
		if _, err := os.Stat(dir); err == nil {
			logger.Infof("skipping %s: checkout exists", repo.GetName())
			continue
		}

		logger.Infof("cloning %s", repo.GetFullName())
		result, err := runner.Run([]string{"gh", "repo", "clone", repo.GetFullName(), dir}, root, false)
		if err != nil {
			return errors.CloneFailed(repo.GetFullName(), err)
		}
		if result.ExitCode != 0 {
			return errors.CloneFailed(repo.GetFullName(), fmt.Errorf("gh exited with code %d", result.ExitCode))
		}

		if cfg.HasPostCloneHooks() {
			fmt.Fprintf(w, "Running post-clone hooks in %s...\n", repo.GetName())
			if err := hookExecutor.ExecutePostCloneHooks(w, dir); err != nil {
				logger.Warnf("post-clone hooks failed in %s: %v", repo.GetName(), err)
			}
		}
	}
	return nil
}
