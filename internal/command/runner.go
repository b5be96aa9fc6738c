package command

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner spawns one external command.
type Runner interface {
	// Run launches args[0] with the remaining arguments in dir. With
	// capture enabled both output streams end up in the result instead
	// of the runner's writers. A non-zero exit is a normal result, not
	// an error; Run fails only when the process cannot be started.
	Run(args []string, dir string, capture bool) (Result, error)
}

// SpawnError reports a command that could not be started at all, as
// opposed to one that ran and exited non-zero.
type SpawnError struct {
	Args []string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

type processRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewRunner returns a Runner backed by os/exec. Output of non-captured
// commands streams to stdout and stderr, which default to the process
// streams when nil.
func NewRunner(stdout, stderr io.Writer) Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &processRunner{stdout: stdout, stderr: stderr}
}

func (r *processRunner) Run(args []string, dir string, capture bool) (Result, error) {
	cmd := exec.Command(args[0], args[1:]...) // #nosec G204 - executing user-provided commands is the point
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	}

	err := cmd.Run()

	var result Result
	if capture {
		result.Stdout = stdout.String()
		result.Stderr = stderr.String()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return Result{}, &SpawnError{Args: args, Err: err}
	}
	return result, nil
}
