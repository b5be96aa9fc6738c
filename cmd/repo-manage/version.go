package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// Variable to allow mocking in tests
var readBuildInfo = debug.ReadBuildInfo

// initVersion fills in the version from build info when the binary was
// built straight from the module, e.g. via go install.
func initVersion() {
	if version != defaultVersion {
		return
	}
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return
	}
	version = info.Main.Version
}

// NewVersionCommand creates the version command definition
func NewVersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Action: versionCommand,
	}
}

func versionCommand(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "repo-manage version %s\n", version)
	return nil
}
