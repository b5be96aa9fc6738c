package command

import (
	"fmt"
	"strings"
)

// outputSeparator joins the captured streams of the commands that ran
// under one compound node.
const outputSeparator = "\n######\n"

// Result is the outcome of executing a node. For compounds the exit
// code is the last executed child's, and with capture enabled the
// streams hold the joined output of every child that ran.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CheckError reports an expression whose final exit code was non-zero
// while check mode was on.
type CheckError struct {
	ExitCode int
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("command failed with exit code %d", e.ExitCode)
}

// Executor walks a command expression tree. The tree itself is never
// mutated, so one Executor can run the same tree in many directories.
type Executor struct {
	runner Runner
}

// NewExecutor creates an Executor that spawns commands through runner.
func NewExecutor(runner Runner) *Executor {
	return &Executor{runner: runner}
}

// Execute runs node in dir.
//
// Each node follows its own rules regardless of check: a Sequence runs
// every child even after failures, And stops at the first non-zero
// exit, Or stops at the first zero. Check only decides what happens to
// the exit code that survives: with check on, a non-zero final result
// comes back as a *CheckError so the caller can abort the remaining
// repositories. Spawn failures stop the walk no matter what. With
// capture on, the result accumulates the output of every command that
// ran.
func (e *Executor) Execute(node Node, dir string, check, capture bool) (Result, error) {
	result, err := e.execute(node, dir, capture)
	if err != nil {
		return result, err
	}
	if check && result.ExitCode != 0 {
		return result, &CheckError{ExitCode: result.ExitCode}
	}
	return result, nil
}

func (e *Executor) execute(node Node, dir string, capture bool) (Result, error) {
	switch node := node.(type) {
	case *Single:
		return e.runner.Run(node.Args, dir, capture)
	case *Sequence:
		return e.executeSequence(node, dir, capture)
	case *And:
		return e.executeAnd(node, dir, capture)
	case *Or:
		return e.executeOr(node, dir, capture)
	default:
		return Result{}, fmt.Errorf("unsupported node type %T", node)
	}
}

func (e *Executor) executeSequence(node *Sequence, dir string, capture bool) (Result, error) {
	var results []Result
	for _, child := range node.Children {
		result, err := e.execute(child, dir, capture)
		results = append(results, result)
		if err != nil {
			return joinResults(results, capture), err
		}
	}
	return joinResults(results, capture), nil
}

func (e *Executor) executeAnd(node *And, dir string, capture bool) (Result, error) {
	var results []Result
	for _, child := range node.Children {
		result, err := e.execute(child, dir, capture)
		results = append(results, result)
		if err != nil {
			return joinResults(results, capture), err
		}
		if result.ExitCode != 0 {
			break
		}
	}
	return joinResults(results, capture), nil
}

func (e *Executor) executeOr(node *Or, dir string, capture bool) (Result, error) {
	var results []Result
	for _, child := range node.Children {
		result, err := e.execute(child, dir, capture)
		results = append(results, result)
		if err != nil {
			return joinResults(results, capture), err
		}
		if result.ExitCode == 0 {
			break
		}
	}
	return joinResults(results, capture), nil
}

// joinResults merges the results of the children that actually ran. The
// exit code mirrors the last one; captured streams concatenate in run
// order.
func joinResults(results []Result, capture bool) Result {
	if len(results) == 1 {
		return results[0]
	}
	var joined Result
	if len(results) == 0 {
		return joined
	}
	joined.ExitCode = results[len(results)-1].ExitCode
	if !capture {
		return joined
	}
	stdout := make([]string, len(results))
	stderr := make([]string, len(results))
	for i, result := range results {
		stdout[i] = result.Stdout
		stderr[i] = result.Stderr
	}
	joined.Stdout = strings.Join(stdout, outputSeparator)
	joined.Stderr = strings.Join(stderr, outputSeparator)
	return joined
}
