package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	gogithub "github.com/google/go-github/v27/github"
	"github.com/stretchr/testify/require"

	"github.com/satococoa/repo-manage/internal/command"
	"github.com/satococoa/repo-manage/internal/log"
)

// newGitHubTestClient serves the GitHub API from mux and returns a
// client pointed at it.
func newGitHubTestClient(t *testing.T, mux *http.ServeMux) *gogithub.Client {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := gogithub.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL
	return client
}

// newBufferLogger returns a logger writing plain lines into the
// returned buffer.
func newBufferLogger(level log.Level) (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, level), &buf
}

type scriptedCall struct {
	args    []string
	dir     string
	capture bool
}

// scriptedRunner fakes process execution: results and errors are looked
// up by the space-joined argv, anything unlisted succeeds quietly.
type scriptedRunner struct {
	calls   []scriptedCall
	results map[string]command.Result
	errs    map[string]error
}

func (r *scriptedRunner) Run(args []string, dir string, capture bool) (command.Result, error) {
	r.calls = append(r.calls, scriptedCall{args: args, dir: dir, capture: capture})

	key := strings.Join(args, " ")
	if err, ok := r.errs[key]; ok {
		return command.Result{}, err
	}
	return r.results[key], nil
}

func (r *scriptedRunner) commandsRun() []string {
	run := make([]string, len(r.calls))
	for i, call := range r.calls {
		run[i] = strings.Join(call.args, " ")
	}
	return run
}

// runnerFunc adapts a function to the command.Runner interface.
type runnerFunc func(args []string, dir string, capture bool) (command.Result, error)

func (f runnerFunc) Run(args []string, dir string, capture bool) (command.Result, error) {
	return f(args, dir, capture)
}
