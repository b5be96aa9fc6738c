package remote

import (
	"context"

	"github.com/google/go-github/v27/github"
)

// ListOpenPullRequests returns every open pull request of owner/name in
// creation order.
func ListOpenPullRequests(ctx context.Context, client *github.Client, owner, name string) ([]*github.PullRequest, error) {
	opt := &github.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var all []*github.PullRequest
	for {
		prs, resp, err := client.PullRequests.List(ctx, owner, name, opt)
		if err != nil {
			return nil, err
		}
		all = append(all, prs...)
		if resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}
