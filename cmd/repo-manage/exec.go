package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/command"
	"github.com/satococoa/repo-manage/internal/errors"
	"github.com/satococoa/repo-manage/internal/git"
	rmio "github.com/satococoa/repo-manage/internal/io"
	"github.com/satococoa/repo-manage/internal/log"
)

// NewExecCommand creates the exec command definition
func NewExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Run a command expression in every local checkout",
		UsageText: "repo-manage exec [--capture] [--no-check] -- <command> [args...]",
		ArgsUsage: "-- <command> [args...]",
		Description: `Runs the command expression after the double dash in every checkout
under the collection root.

Commands chain with ';', '&&' and '||' and group with '(' ')' or
'{' '}'. The two bracket styles mean the same thing and neither
implies a subshell. Tokens are taken as-is, so quote the separators
to keep your shell from eating them:

   repo-manage exec -- git fetch --prune '&&' git status -sb

';' runs every command regardless of exit codes and reports the last
one's; use '&&' when each command must succeed before the next.

A failing expression aborts the remaining checkouts unless --no-check
is given. --capture collects output per checkout instead of streaming
it.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "capture",
				Usage: "Capture command output instead of streaming it",
			},
			&cli.BoolFlag{
				Name:  "no-check",
				Usage: "Keep going when a command exits non-zero",
			},
		},
		Action: execCommand,
	}
}

func execCommand(_ context.Context, cmd *cli.Command) error {
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

	executor := command.NewExecutor(command.NewRunner(rmio.NewFlushingWriter(w), os.Stderr))
	return execInRepositories(cmd, newLogger(cmd), executor, repos)
}

func execInRepositories(cmd *cli.Command, logger *log.Logger, executor *command.Executor, repos []git.Repository) error {
	tree, err := command.Parse(expressionTokens(cmd.Args().Slice()))
	if err != nil {
		return err
	}

	check := !cmd.Bool("no-check")
	capture := cmd.Bool("capture")

	for _, repo := range repos {
		logger.Infof("executing in %s", repo.Path)
		logger.Debugf("command: %s", tree)

		result, err := executor.Execute(tree, repo.Path, check, capture)
		if err != nil {
			if !check {
				logger.Warnf("command failed in %s: %v", repo.Name, err)
				continue
			}
			logger.Errorf("command failed, aborting")
			return err
		}

		logger.Infof("return code: %d", result.ExitCode)
		if result.Stdout != "" {
			logger.Infof("stdout:\n%s", result.Stdout)
		}
		if result.Stderr != "" {
			logger.Infof("stderr:\n%s", result.Stderr)
		}
	}
	return nil
}

// expressionTokens drops the "--" separating the expression from the
// exec flags when flag parsing left it in the residual arguments.
func expressionTokens(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}
