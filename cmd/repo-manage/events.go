package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v27/github"
	"github.com/sosodev/duration"
	"github.com/urfave/cli/v3"

	"github.com/satococoa/repo-manage/internal/config"
	"github.com/satococoa/repo-manage/internal/errors"
	"github.com/satococoa/repo-manage/internal/log"
	"github.com/satococoa/repo-manage/internal/remote"
	"github.com/satococoa/repo-manage/internal/render"
)

const eventTimeLayout = "2006-01-02T15:04:05Z"

// NewEventsCommand creates the events command definition
func NewEventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Show recent activity for the organization or a repository",
		Description: "Lists GitHub events newer than the --newer-than window. With --org the " +
			"organization feed is shown. Otherwise the root decides the target: a root that " +
			"contains a .git entry is treated as a single repository, anything else as an " +
			"organization named after the directory.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "newer-than",
				Usage: "Only show events newer than this ISO 8601 duration",
				Value: config.DefaultEventsWindow,
			},
		},
		Action: eventsCommand,
	}
}

func eventsCommand(ctx context.Context, cmd *cli.Command) error {
	orgSet := cmd.Root().IsSet("org")
	rootSet := cmd.Root().IsSet("root")
	if orgSet && rootSet {
		return errors.EventsTargetConflict()
	}

	root, err := collectionRoot(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadCollectionConfig(root)
	if err != nil {
		return err
	}
	window, err := eventsWindow(cmd, cfg)
	if err != nil {
		return err
	}
	since := time.Now().UTC().Add(-window)

	logger := newLogger(cmd)
	logger.Debugf("showing events since %s", since.Format(time.RFC3339))

	client, err := remote.NewClient(ctx)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	if !orgSet {
		if owner, name, ok := repoTarget(root); ok {
			return repoEvents(ctx, w, logger, client, owner, name, since)
		}
	}
	return orgEvents(ctx, w, logger, client, resolveOrg(cmd, cfg, root), since)
}

// repoTarget treats a root that is itself a checkout as a single
// repository, deriving the owner from the parent directory's name.
func repoTarget(root string) (owner, name string, ok bool) {
	if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
		return "", "", false
	}
	return filepath.Base(filepath.Dir(root)), filepath.Base(root), true
}

// eventsWindow resolves the window duration: explicit flag, then
// configuration, then the built-in default.
func eventsWindow(cmd *cli.Command, cfg *config.Config) (time.Duration, error) {
	value := cmd.String("newer-than")
	if !cmd.IsSet("newer-than") && cfg.Events.NewerThan != "" {
		value = cfg.Events.NewerThan
	}
	d, err := duration.Parse(value)
	if err != nil {
		return 0, errors.InvalidDuration("--newer-than", value, err)
	}
	return d.ToTimeDuration(), nil
}

func repoEvents(ctx context.Context, w io.Writer, logger *log.Logger, client *gogithub.Client, owner, name string, since time.Time) error {
	logger.Infof("fetching events for %s/%s", owner, name)
	events, err := remote.ListRepositoryEventsSince(ctx, client, owner, name, since)
	if err != nil {
		return err
	}

	table := render.NewTable(w, "Events", "Created At", "Actor", "Type", "Description")
	var prev time.Time
	for _, event := range events {
		created := event.GetCreatedAt().UTC()
		table.Append(elideTimestamp(created, prev), event.GetActor().GetLogin(), event.GetType(), describeEvent(event))
		prev = created
	}
	table.Render()
	return nil
}

// orgEvents renders the authenticated user's view of the organization
// feed. The feed spans repositories, so the table grows a Repo column.
func orgEvents(ctx context.Context, w io.Writer, logger *log.Logger, client *gogithub.Client, org string, since time.Time) error {
	logger.Infof("fetching events for %s", org)
	events, err := remote.ListOrganizationEventsSince(ctx, client, org, since)
	if err != nil {
		return err
	}

	table := render.NewTable(w, "Events", "Created At", "Repo", "Actor", "Type", "Description")
	var prev time.Time
	for _, event := range events {
		created := event.GetCreatedAt().UTC()
		table.Append(elideTimestamp(created, prev), event.GetRepo().GetName(), event.GetActor().GetLogin(), event.GetType(), describeEvent(event))
		prev = created
	}
	table.Render()
	return nil
}

// elideTimestamp blanks the leading fields a timestamp shares with the
// previous row, so a run of close events reads like a diff:
//
//	2023-10-01T12:00:00Z
//	           13:01:10Z
//	              05:25Z
//	     11-21T12:00:00Z
func elideTimestamp(ts, prev time.Time) string {
	full := ts.Format(eventTimeLayout)
	if prev.IsZero() {
		return full
	}

	var blank int
	switch {
	case ts.Year() != prev.Year():
		return full
	case ts.Month() != prev.Month():
		blank = len("2006-")
	case ts.Day() != prev.Day():
		blank = len("2006-01-")
	case ts.Hour() != prev.Hour():
		blank = len("2006-01-02T")
	case ts.Minute() != prev.Minute():
		blank = len("2006-01-02T15:")
	case ts.Second() != prev.Second():
		blank = len("2006-01-02T15:04:")
	default:
		return ""
	}
	return strings.Repeat(" ", blank) + full[blank:]
}

// describeEvent renders a one-line summary of an event payload. Types
// this build does not know come back from ParsePayload as plain maps
// and render empty instead of failing.
func describeEvent(event *gogithub.Event) string {
	payload, err := event.ParsePayload()
	if err != nil {
		return ""
	}

	switch p := payload.(type) {
	case *gogithub.CommitCommentEvent:
		return firstLine(p.GetComment().GetBody())
	case *gogithub.CreateEvent:
		desc := fmt.Sprintf("Created %s %s", p.GetRefType(), p.GetRef())
		if summary := truncate(p.GetDescription(), 100); summary != "" {
			desc += ": " + summary
		}
		return desc
	case *gogithub.DeleteEvent:
		return fmt.Sprintf("Deleted %s %s", p.GetRefType(), p.GetRef())
	case *gogithub.ForkEvent:
		return fmt.Sprintf("Forked %s", p.GetForkee().GetName())
	case *gogithub.GollumEvent:
		if len(p.Pages) == 0 {
			return ""
		}
		return fmt.Sprintf("Edited %s", p.Pages[0].GetPageName())
	case *gogithub.IssueCommentEvent:
		return firstLine(p.GetComment().GetBody())
	case *gogithub.IssuesEvent:
		return fmt.Sprintf("%s %s", p.GetAction(), p.GetIssue().GetTitle())
	case *gogithub.MemberEvent:
		return fmt.Sprintf("%s %s", p.GetAction(), p.GetMember().GetLogin())
	case *gogithub.PublicEvent:
		return "Repository made public"
	case *gogithub.PullRequestEvent:
		return fmt.Sprintf("%s %s", p.GetAction(), p.GetPullRequest().GetTitle())
	case *gogithub.PullRequestReviewEvent:
		return fmt.Sprintf("Reviewed %s", p.GetPullRequest().GetTitle())
	case *gogithub.PullRequestReviewCommentEvent:
		return firstLine(p.GetComment().GetBody())
	case *gogithub.PushEvent:
		return describePush(p)
	case *gogithub.ReleaseEvent:
		return fmt.Sprintf("Released %s", p.GetRelease().GetName())
	case *gogithub.WatchEvent:
		return p.GetAction()
	default:
		return ""
	}
}

func describePush(p *gogithub.PushEvent) string {
	branch := strings.TrimPrefix(p.GetRef(), "refs/heads/")
	noun := "commits"
	if p.GetSize() == 1 {
		noun = "commit"
	}
	desc := fmt.Sprintf("Pushed %d %s to %s", p.GetSize(), noun, branch)
	if len(p.Commits) > 0 {
		if msg := firstLine(p.Commits[0].GetMessage()); msg != "" {
			desc += ": " + msg
		}
	}
	return desc
}

var markdownLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

// firstLine reduces a comment body to its first line, rewriting
// Markdown links [text](url) as "text (url)" for plain terminals.
func firstLine(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(markdownLink.ReplaceAllString(line, "$1 ($2)"))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
