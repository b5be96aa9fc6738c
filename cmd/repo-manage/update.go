package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/command"
	"github.com/satococoa/repo-manage/internal/errors"
	"github.com/satococoa/repo-manage/internal/git"
	rmio "github.com/satococoa/repo-manage/internal/io"
	"github.com/satococoa/repo-manage/internal/log"
)

// NewUpdateCommand creates the update command definition
func NewUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Switch every checkout to its default branch and pull",
		Description: "For each checkout under the collection root: resolves the default " +
			"branch with 'gh repo view', checks it out and pulls. A checkout that fails a " +
			"step is reported and skipped, the rest continue.",
		Action: updateCommand,
	}
}

func updateCommand(_ context.Context, cmd *cli.Command) error {
	for _, name := range []string{"git", "gh"} {
		if _, err := exec.LookPath(name); err != nil {
			return errors.ExecutableNotFound(name)
		}
	}

	root, err := collectionRoot(cmd)
	if err != nil {
		return err
	}
	repos, err := git.Discover(root)
	if err != nil {
		return errors.DirectoryAccessFailed("read", root, err)
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	runner := command.NewRunner(rmio.NewFlushingWriter(w), os.Stderr)
	return updateRepositories(newLogger(cmd), runner, repos)
}

func updateRepositories(logger *log.Logger, runner command.Runner, repos []git.Repository) error {
	for _, repo := range repos {
		logger.Infof("updating %s", repo.Name)

		result, err := runner.Run(
			[]string{"gh", "repo", "view", "--json", "defaultBranchRef", "--jq", ".defaultBranchRef.name"},
			repo.Path, true)
		if failed(result, err) {
			logger.Warnf("skipping %s: cannot resolve default branch: %s", repo.Name, describeFailure(result, err))
			continue
		}
		branch := strings.TrimSpace(result.Stdout)
		if branch == "" {
			logger.Warnf("skipping %s: no default branch reported", repo.Name)
			continue
		}

		result, err = runner.Run([]string{"git", "checkout", branch}, repo.Path, false)
		if failed(result, err) {
			logger.Warnf("skipping %s: checkout of %s failed: %s", repo.Name, branch, describeFailure(result, err))
			continue
		}

		result, err = runner.Run([]string{"git", "pull"}, repo.Path, false)
		if failed(result, err) {
			logger.Warnf("skipping %s: pull failed: %s", repo.Name, describeFailure(result, err))
		}
	}
	return nil
}

func failed(result command.Result, err error) bool {
	return err != nil || result.ExitCode != 0
}

func describeFailure(result command.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" {
		return fmt.Sprintf("exit code %d", result.ExitCode)
	}
	return fmt.Sprintf("exit code %d: %s", result.ExitCode, detail)
}
