package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
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

// NewListPRsCommand creates the list-prs command definition
func NewListPRsCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-prs",
		Usage: "List open pull requests across the organization",
		Description: "Collects the open pull requests of every repository the organization " +
			"owns and prints them as one table, newest first.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "exclude-forks",
				Usage: "Skip forked repositories",
			},
			&cli.BoolFlag{
				Name:  "include-archived",
				Usage: "Include archived repositories",
			},
			&cli.BoolFlag{
				Name:  "include-drafts",
				Usage: "Include draft pull requests",
			},
			&cli.StringSliceFlag{
				Name:  "author",
				Usage: "Show only pull requests whose author matches the regexp (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude-author",
				Usage: "Hide pull requests whose author matches the regexp (repeatable)",
			},
			&cli.StringFlag{
				Name:  "older-than",
				Usage: "Show only pull requests older than the ISO 8601 duration (e.g. P7D)",
			},
			&cli.StringFlag{
				Name:  "newer-than",
				Usage: "Show only pull requests newer than the ISO 8601 duration (e.g. P7D)",
			},
		},
		Action: listPRsCommand,
	}
}

func listPRsCommand(ctx context.Context, cmd *cli.Command) error {
	root, err := collectionRoot(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadCollectionConfig(root)
	if err != nil {
		return err
	}
	filter, err := buildPRFilter(cmd, cfg, time.Now())
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

	return listPRs(ctx, w, newLogger(cmd), client, resolveOrg(cmd, cfg, root),
		!cmd.Bool("exclude-forks"), cmd.Bool("include-archived"), filter)
}

func listPRs(ctx context.Context, w io.Writer, logger *log.Logger, client *gogithub.Client,
	org string, includeForks, includeArchived bool, filter *prFilter,
) error {
	repos, err := remote.ListRepositories(ctx, client, org, includeForks, includeArchived)
	if err != nil {
		return err
	}

	var rows []prRow
	for _, repo := range repos {
		logger.Infof("fetching pull requests for %s", repo.GetFullName())
		prs, err := remote.ListOpenPullRequests(ctx, client, repo.GetOwner().GetLogin(), repo.GetName())
		if err != nil {
			return err
		}
		for _, pr := range prs {
			if skip, reason := filter.skip(pr); skip {
				logger.Infof("excluding %s#%d: %s", repo.GetFullName(), pr.GetNumber(), reason)
				continue
			}
			rows = append(rows, prRow{
				repo:    repo.GetFullName(),
				number:  pr.GetNumber(),
				title:   pr.GetTitle(),
				author:  pr.GetUser().GetLogin(),
				created: pr.GetCreatedAt(),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].created.After(rows[j].created) })

	table := render.NewTable(w, "Open Pull Requests", "PR", "Title", "Author", "Created")
	for _, row := range rows {
		table.Append(
			fmt.Sprintf("%s#%d", row.repo, row.number),
			row.title,
			row.author,
			row.created.Format("2006-01-02"),
		)
	}
	table.Render()
	return nil
}

type prRow struct {
	repo    string
	number  int
	title   string
	author  string
	created time.Time
}

// prFilter decides which open pull requests make it into the table.
// Zero cutoff times mean the bound is off.
type prFilter struct {
	includeDrafts  bool
	authors        []*regexp.Regexp
	excludeAuthors []*regexp.Regexp
	createdBefore  time.Time
	createdAfter   time.Time
}

// buildPRFilter assembles the filter from flags; exclusion patterns
// fall back to the configuration when the flag is absent.
func buildPRFilter(cmd *cli.Command, cfg *config.Config, now time.Time) (*prFilter, error) {
	filter := &prFilter{includeDrafts: cmd.Bool("include-drafts")}

	authors, err := compileAuthorPatterns(cmd.StringSlice("author"))
	if err != nil {
		return nil, err
	}
	filter.authors = authors

	excludePatterns := cmd.StringSlice("exclude-author")
	if len(excludePatterns) == 0 && cfg != nil {
		excludePatterns = cfg.PullRequests.ExcludeAuthors
	}
	excludes, err := compileAuthorPatterns(excludePatterns)
	if err != nil {
		return nil, err
	}
	filter.excludeAuthors = excludes

	if value := cmd.String("older-than"); value != "" {
		d, err := duration.Parse(value)
		if err != nil {
			return nil, errors.InvalidDuration("--older-than", value, err)
		}
		filter.createdBefore = now.Add(-d.ToTimeDuration())
	}
	if value := cmd.String("newer-than"); value != "" {
		d, err := duration.Parse(value)
		if err != nil {
			return nil, errors.InvalidDuration("--newer-than", value, err)
		}
		filter.createdAfter = now.Add(-d.ToTimeDuration())
	}
	return filter, nil
}

func compileAuthorPatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.InvalidAuthorPattern(pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func (f *prFilter) skip(pr *gogithub.PullRequest) (bool, string) {
	if pr.GetDraft() && !f.includeDrafts {
		return true, "draft"
	}

	author := pr.GetUser().GetLogin()
	for _, pattern := range f.excludeAuthors {
		if pattern.MatchString(author) {
			return true, fmt.Sprintf("author %q is excluded", author)
		}
	}
	if len(f.authors) > 0 {
		matched := false
		for _, pattern := range f.authors {
			if pattern.MatchString(author) {
				matched = true
				break
			}
		}
		if !matched {
			return true, fmt.Sprintf("author %q does not match", author)
		}
	}

	created := pr.GetCreatedAt()
	if !f.createdBefore.IsZero() && created.After(f.createdBefore) {
		return true, "newer than --older-than"
	}
	if !f.createdAfter.IsZero() && created.Before(f.createdAfter) {
		return true, "older than --newer-than"
	}
	return false, ""
}
