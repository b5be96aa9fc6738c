package remote

import (
	"context"
	"net/http"
	"sort"

	"github.com/google/go-github/v27/github"

	"github.com/satococoa/repo-manage/internal/errors"
)

// ListRepositories returns the repositories owned by owner, sorted by
// full name. The owner is tried as an organization first and as a user
// when that yields a 404, the same lookup the GitHub CLI does. Forks
// and archived repositories are kept or dropped per the flags.
func ListRepositories(ctx context.Context, client *github.Client, owner string, includeForks, includeArchived bool) ([]*github.Repository, error) {
	repos, err := listOrgRepositories(ctx, client, owner)
	if isNotFound(err) {
		repos, err = listUserRepositories(ctx, client, owner)
		if isNotFound(err) {
			return nil, errors.OwnerNotFound(owner)
		}
	}
	if err != nil {
		return nil, err
	}

	filtered := repos[:0]
	for _, repo := range repos {
		if repo.GetFork() && !includeForks {
			continue
		}
		if repo.GetArchived() && !includeArchived {
			continue
		}
		filtered = append(filtered, repo)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].GetFullName() < filtered[j].GetFullName()
	})
	return filtered, nil
}

// ParentFullName resolves the full name of a fork's upstream. List
// responses leave the parent record empty, so the repository has to be
// fetched individually.
func ParentFullName(ctx context.Context, client *github.Client, repo *github.Repository) (string, error) {
	full, _, err := client.Repositories.Get(ctx, repo.GetOwner().GetLogin(), repo.GetName())
	if err != nil {
		return "", err
	}
	return full.GetParent().GetFullName(), nil
}

func listOrgRepositories(ctx context.Context, client *github.Client, org string) ([]*github.Repository, error) {
	opt := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var all []*github.Repository
	for {
		repos, resp, err := client.Repositories.ListByOrg(ctx, org, opt)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}

func listUserRepositories(ctx context.Context, client *github.Client, user string) ([]*github.Repository, error) {
	opt := &github.RepositoryListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var all []*github.Repository
	for {
		repos, resp, err := client.Repositories.List(ctx, user, opt)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}

// isNotFound reports whether err is a GitHub 404. The client returns
// *github.ErrorResponse directly, so a type assertion is enough.
func isNotFound(err error) bool {
	errResp, ok := err.(*github.ErrorResponse)
	return ok && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound
}
