package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v27/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/config"
	"github.com/satococoa/repo-manage/internal/log"
)

func TestNewEventsCommand(t *testing.T) {
	cmd := NewEventsCommand()

	assert.Equal(t, "events", cmd.Name)
	assert.NotEmpty(t, cmd.Description)
	assert.NotNil(t, cmd.Action)

	require.Len(t, cmd.Flags, 1)
	assert.Equal(t, "newer-than", cmd.Flags[0].Names()[0])
}

func TestElideTimestamp(t *testing.T) {
	base := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   time.Time
		prev time.Time
		want string
	}{
		{"first row stays full", base, time.Time{}, "2023-10-01T12:00:00Z"},
		{"different year stays full", base.AddDate(1, 0, 0), base, "2024-10-01T12:00:00Z"},
		{"same year blanks it", time.Date(2023, 11, 21, 12, 0, 0, 0, time.UTC), base, "     11-21T12:00:00Z"},
		{"same day blanks the date", time.Date(2023, 10, 1, 13, 1, 10, 0, time.UTC), base, "           13:01:10Z"},
		{"same hour blanks it too", time.Date(2023, 10, 1, 12, 5, 25, 0, time.UTC), base, "              05:25Z"},
		{"same minute leaves seconds", time.Date(2023, 10, 1, 12, 0, 30, 0, time.UTC), base, "                 30Z"},
		{"identical timestamp goes blank", base, base, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, elideTimestamp(tt.ts, tt.prev))
		})
	}
}

// rawEvent builds an event the way the feed API delivers it, with the
// payload still raw.
func rawEvent(t *testing.T, eventType, payload string) *gogithub.Event {
	t.Helper()
	raw := json.RawMessage(payload)
	return &gogithub.Event{Type: gogithub.String(eventType), RawPayload: &raw}
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		payload   string
		want      string
	}{
		{
			"push with commits",
			"PushEvent",
			`{"ref":"refs/heads/main","size":3,"commits":[{"message":"Fix the frobnicator\n\nLong explanation."}]}`,
			"Pushed 3 commits to main: Fix the frobnicator",
		},
		{
			"push without commit details",
			"PushEvent",
			`{"ref":"refs/heads/feature/x","size":1}`,
			"Pushed 1 commit to feature/x",
		},
		{
			"create with description",
			"CreateEvent",
			`{"ref_type":"branch","ref":"main","description":"A shiny new tool"}`,
			"Created branch main: A shiny new tool",
		},
		{
			"create without description",
			"CreateEvent",
			`{"ref_type":"tag","ref":"v1.0.0"}`,
			"Created tag v1.0.0",
		},
		{
			"delete",
			"DeleteEvent",
			`{"ref_type":"branch","ref":"old-work"}`,
			"Deleted branch old-work",
		},
		{
			"fork",
			"ForkEvent",
			`{"forkee":{"name":"app"}}`,
			"Forked app",
		},
		{
			"wiki edit",
			"GollumEvent",
			`{"pages":[{"page_name":"Home"},{"page_name":"FAQ"}]}`,
			"Edited Home",
		},
		{
			"issue comment with markdown link",
			"IssueCommentEvent",
			`{"comment":{"body":"See [the docs](https://example.com/docs) first\nSecond line."}}`,
			"See the docs (https://example.com/docs) first",
		},
		{
			"issue",
			"IssuesEvent",
			`{"action":"opened","issue":{"title":"Crash on start"}}`,
			"opened Crash on start",
		},
		{
			"member",
			"MemberEvent",
			`{"action":"added","member":{"login":"carol"}}`,
			"added carol",
		},
		{
			"made public",
			"PublicEvent",
			`{}`,
			"Repository made public",
		},
		{
			"pull request",
			"PullRequestEvent",
			`{"action":"closed","pull_request":{"title":"Add cache"}}`,
			"closed Add cache",
		},
		{
			"pull request review",
			"PullRequestReviewEvent",
			`{"action":"submitted","pull_request":{"title":"Add cache"}}`,
			"Reviewed Add cache",
		},
		{
			"review comment",
			"PullRequestReviewCommentEvent",
			`{"comment":{"body":"Typo on line 3."}}`,
			"Typo on line 3.",
		},
		{
			"commit comment",
			"CommitCommentEvent",
			`{"comment":{"body":"Nice fix"}}`,
			"Nice fix",
		},
		{
			"release",
			"ReleaseEvent",
			`{"release":{"name":"v2.0.0"}}`,
			"Released v2.0.0",
		},
		{
			"watch",
			"WatchEvent",
			`{"action":"started"}`,
			"started",
		},
		{
			"unknown type renders empty",
			"SponsorshipEvent",
			`{"action":"created"}`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeEvent(rawEvent(t, tt.eventType, tt.payload)))
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "first", firstLine("first\nsecond\nthird"))
	assert.Equal(t, "padded", firstLine("  padded  \n"))
	assert.Equal(t, "see a (u1) and b (u2)", firstLine("see [a](u1) and [b](u2)"))
	assert.Equal(t, "plain text", firstLine("plain text"))
	assert.Equal(t, "", firstLine(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "hello", truncate("hello world", 5))
	assert.Equal(t, "héllo", truncate("héllo wörld", 5))
}

// parsedEventsCommand returns the events command with flags parsed from
// args and the action replaced by a no-op.
func parsedEventsCommand(t *testing.T, args ...string) *cli.Command {
	t.Helper()

	events := NewEventsCommand()
	events.Action = func(_ context.Context, _ *cli.Command) error { return nil }
	app := &cli.Command{Name: "repo-manage", Commands: []*cli.Command{events}}

	cmdArgs := append([]string{"repo-manage", "events"}, args...)
	require.NoError(t, app.Run(context.Background(), cmdArgs))
	return events
}

func TestEventsWindow(t *testing.T) {
	t.Run("should default to seven days", func(t *testing.T) {
		cmd := parsedEventsCommand(t)

		window, err := eventsWindow(cmd, &config.Config{})

		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, window)
	})

	t.Run("should prefer the configured window over the default", func(t *testing.T) {
		cmd := parsedEventsCommand(t)
		cfg := &config.Config{Events: config.Events{NewerThan: "P14D"}}

		window, err := eventsWindow(cmd, cfg)

		require.NoError(t, err)
		assert.Equal(t, 14*24*time.Hour, window)
	})

	t.Run("should prefer the flag over the configuration", func(t *testing.T) {
		cmd := parsedEventsCommand(t, "--newer-than", "PT12H")
		cfg := &config.Config{Events: config.Events{NewerThan: "P14D"}}

		window, err := eventsWindow(cmd, cfg)

		require.NoError(t, err)
		assert.Equal(t, 12*time.Hour, window)
	})

	t.Run("should reject durations that are not ISO 8601", func(t *testing.T) {
		cmd := parsedEventsCommand(t, "--newer-than", "7days")

		_, err := eventsWindow(cmd, &config.Config{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid ISO 8601 duration")
		assert.Contains(t, err.Error(), "--newer-than")
	})
}

func TestRepoTarget(t *testing.T) {
	t.Run("should treat a checkout as a repository target", func(t *testing.T) {
		root := t.TempDir()
		checkout := filepath.Join(root, "acme", "app")
		require.NoError(t, os.MkdirAll(filepath.Join(checkout, ".git"), 0o755))

		owner, name, ok := repoTarget(checkout)

		assert.True(t, ok)
		assert.Equal(t, "acme", owner)
		assert.Equal(t, "app", name)
	})

	t.Run("should reject a plain directory", func(t *testing.T) {
		_, _, ok := repoTarget(t.TempDir())

		assert.False(t, ok)
	})
}

func TestRepoEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/events", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"type":"PushEvent","actor":{"login":"alice"},"repo":{"name":"acme/app"},
			 "created_at":"2026-08-20T10:00:00Z",
			 "payload":{"ref":"refs/heads/main","size":2,"commits":[{"message":"Fix the frobnicator"}]}},
			{"type":"WatchEvent","actor":{"login":"bob"},"repo":{"name":"acme/app"},
			 "created_at":"2026-08-20T09:58:00Z","payload":{"action":"started"}},
			{"type":"WatchEvent","actor":{"login":"carol"},"repo":{"name":"acme/app"},
			 "created_at":"2020-01-01T00:00:00Z","payload":{"action":"started"}}
		]`)
	})
	client := newGitHubTestClient(t, mux)
	logger, _ := newBufferLogger(log.LevelWarn)
	since := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := repoEvents(context.Background(), &buf, logger, client, "acme", "app", since)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Events")
	assert.Contains(t, out, "2026-08-20T10:00:00Z")
	assert.Contains(t, out, "Pushed 2 commits to main: Fix the frobnicator")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "started")

	// The second row shares the date and hour with the first, so only
	// minutes and seconds are printed.
	assert.Contains(t, out, "09:58:00Z")
	assert.NotContains(t, out, "2026-08-20T09:58:00Z")

	// The third event is older than the window.
	assert.NotContains(t, out, "carol")
}

func TestOrgEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"me"}`)
	})
	mux.HandleFunc("/users/me/events/orgs/acme", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"type":"ReleaseEvent","actor":{"login":"alice"},"repo":{"name":"acme/app"},
			 "created_at":"2026-08-21T08:30:00Z","payload":{"release":{"name":"v2.0.0"}}},
			{"type":"IssuesEvent","actor":{"login":"bob"},"repo":{"name":"acme/tool"},
			 "created_at":"2026-08-20T17:12:41Z",
			 "payload":{"action":"opened","issue":{"title":"Crash on start"}}}
		]`)
	})
	client := newGitHubTestClient(t, mux)
	logger, _ := newBufferLogger(log.LevelWarn)
	since := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := orgEvents(context.Background(), &buf, logger, client, "acme", since)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Repo")
	assert.Contains(t, out, "acme/app")
	assert.Contains(t, out, "acme/tool")
	assert.Contains(t, out, "Released v2.0.0")
	assert.Contains(t, out, "opened Crash on start")
}

func TestEventsCommand_TargetConflict(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err := app.Run(context.Background(), []string{
		"repo-manage", "--org", "acme", "--root", t.TempDir(), "events",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "both --org and --root were given")
}
