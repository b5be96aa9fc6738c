package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v27/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/config"
	"github.com/satococoa/repo-manage/internal/log"
)

func TestNewListPRsCommand(t *testing.T) {
	cmd := NewListPRsCommand()

	assert.Equal(t, "list-prs", cmd.Name)
	assert.NotEmpty(t, cmd.Description)
	assert.NotNil(t, cmd.Action)

	flagNames := make(map[string]bool)
	for _, flag := range cmd.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, expected := range []string{
		"exclude-forks", "include-archived", "include-drafts",
		"author", "exclude-author", "older-than", "newer-than",
	} {
		assert.True(t, flagNames[expected], "Flag %s should exist", expected)
	}
}

// parsedPRsCommand returns the list-prs command with flags parsed from
// args and the action replaced by a no-op.
func parsedPRsCommand(t *testing.T, args ...string) *cli.Command {
	t.Helper()

	prs := NewListPRsCommand()
	prs.Action = func(_ context.Context, _ *cli.Command) error { return nil }
	app := &cli.Command{Name: "repo-manage", Commands: []*cli.Command{prs}}

	cmdArgs := append([]string{"repo-manage", "list-prs"}, args...)
	require.NoError(t, app.Run(context.Background(), cmdArgs))
	return prs
}

func testPR(author string, created time.Time, draft bool) *gogithub.PullRequest {
	return &gogithub.PullRequest{
		User:      &gogithub.User{Login: gogithub.String(author)},
		CreatedAt: &created,
		Draft:     gogithub.Bool(draft),
	}
}

func TestBuildPRFilter(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("should exclude drafts by default", func(t *testing.T) {
		cmd := parsedPRsCommand(t)
		filter, err := buildPRFilter(cmd, &config.Config{}, now)
		require.NoError(t, err)

		assert.False(t, filter.includeDrafts)
		assert.Empty(t, filter.authors)
		assert.Empty(t, filter.excludeAuthors)
		assert.True(t, filter.createdBefore.IsZero())
		assert.True(t, filter.createdAfter.IsZero())
	})

	t.Run("should take exclusion patterns from configuration", func(t *testing.T) {
		cmd := parsedPRsCommand(t)
		cfg := &config.Config{
			PullRequests: config.PullRequests{ExcludeAuthors: []string{`dependabot.*`}},
		}
		filter, err := buildPRFilter(cmd, cfg, now)
		require.NoError(t, err)

		skip, reason := filter.skip(testPR("dependabot[bot]", now, false))
		assert.True(t, skip)
		assert.Contains(t, reason, "is excluded")
	})

	t.Run("should prefer exclusion flags over configuration", func(t *testing.T) {
		cmd := parsedPRsCommand(t, "--exclude-author", "renovate.*")
		cfg := &config.Config{
			PullRequests: config.PullRequests{ExcludeAuthors: []string{`dependabot.*`}},
		}
		filter, err := buildPRFilter(cmd, cfg, now)
		require.NoError(t, err)

		skip, _ := filter.skip(testPR("dependabot[bot]", now, false))
		assert.False(t, skip)
		skip, _ = filter.skip(testPR("renovate-bot", now, false))
		assert.True(t, skip)
	})

	t.Run("should resolve duration cutoffs against now", func(t *testing.T) {
		cmd := parsedPRsCommand(t, "--older-than", "P7D", "--newer-than", "P30D")
		filter, err := buildPRFilter(cmd, &config.Config{}, now)
		require.NoError(t, err)

		assert.Equal(t, now.Add(-7*24*time.Hour), filter.createdBefore)
		assert.Equal(t, now.Add(-30*24*time.Hour), filter.createdAfter)
	})

	t.Run("should reject invalid author patterns", func(t *testing.T) {
		cmd := parsedPRsCommand(t, "--author", "[unclosed")
		_, err := buildPRFilter(cmd, &config.Config{}, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid author pattern")
	})

	t.Run("should reject invalid durations", func(t *testing.T) {
		cmd := parsedPRsCommand(t, "--older-than", "7days")
		_, err := buildPRFilter(cmd, &config.Config{}, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid ISO 8601 duration")
		assert.Contains(t, err.Error(), "--older-than")
	})
}

func TestPRFilterSkip(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("should skip drafts unless included", func(t *testing.T) {
		filter := &prFilter{}
		skip, reason := filter.skip(testPR("alice", now, true))
		assert.True(t, skip)
		assert.Equal(t, "draft", reason)

		filter.includeDrafts = true
		skip, _ = filter.skip(testPR("alice", now, true))
		assert.False(t, skip)
	})

	t.Run("should keep only matching authors when patterns given", func(t *testing.T) {
		cmd := parsedPRsCommand(t, "--author", "^alice$", "--author", "^bob$")
		filter, err := buildPRFilter(cmd, &config.Config{}, now)
		require.NoError(t, err)

		skip, _ := filter.skip(testPR("bob", now, false))
		assert.False(t, skip)

		skip, reason := filter.skip(testPR("mallory", now, false))
		assert.True(t, skip)
		assert.Contains(t, reason, "does not match")
	})

	t.Run("should apply the age cutoffs", func(t *testing.T) {
		filter := &prFilter{createdBefore: now.Add(-7 * 24 * time.Hour)}

		skip, reason := filter.skip(testPR("alice", now.Add(-24*time.Hour), false))
		assert.True(t, skip)
		assert.Equal(t, "newer than --older-than", reason)

		skip, _ = filter.skip(testPR("alice", now.Add(-8*24*time.Hour), false))
		assert.False(t, skip)

		filter = &prFilter{createdAfter: now.Add(-7 * 24 * time.Hour)}

		skip, reason = filter.skip(testPR("alice", now.Add(-8*24*time.Hour), false))
		assert.True(t, skip)
		assert.Equal(t, "older than --newer-than", reason)

		skip, _ = filter.skip(testPR("alice", now.Add(-24*time.Hour), false))
		assert.False(t, skip)
	})
}

func TestListPRs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"name":"app","full_name":"acme/app","owner":{"login":"acme"}}]`)
	})
	mux.HandleFunc("/repos/acme/app/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		fmt.Fprint(w, `[
			{"number":1,"title":"Old change","user":{"login":"alice"},"created_at":"2026-08-01T10:00:00Z"},
			{"number":2,"title":"New change","user":{"login":"bob"},"created_at":"2026-08-20T10:00:00Z"},
			{"number":3,"title":"Draft change","user":{"login":"carol"},"created_at":"2026-08-21T10:00:00Z","draft":true}
		]`)
	})
	client := newGitHubTestClient(t, mux)
	logger, logs := newBufferLogger(log.LevelInfo)

	var buf bytes.Buffer
	err := listPRs(context.Background(), &buf, logger, client, "acme", true, false, &prFilter{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Open Pull Requests")
	assert.Contains(t, output, "acme/app#1")
	assert.Contains(t, output, "acme/app#2")
	assert.Contains(t, output, "alice")
	assert.Contains(t, output, "bob")
	assert.Contains(t, output, "2026-08-01")
	assert.Contains(t, output, "2026-08-20")

	// Newest first.
	assert.Less(t, strings.Index(output, "New change"), strings.Index(output, "Old change"))

	// The draft is filtered, and the exclusion is logged.
	assert.NotContains(t, output, "Draft change")
	assert.Contains(t, logs.String(), "excluding acme/app#3: draft")
}
