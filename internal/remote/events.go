package remote

import (
	"context"
	"time"

	"github.com/google/go-github/v27/github"
)

// ListRepositoryEventsSince returns owner/name's events newer than
// since, newest first. The feed arrives in reverse chronological order,
// so fetching stops at the first event past the cutoff.
func ListRepositoryEventsSince(ctx context.Context, client *github.Client, owner, name string, since time.Time) ([]*github.Event, error) {
	opt := &github.ListOptions{PerPage: 100}
	var all []*github.Event
	for {
		events, resp, err := client.Activity.ListRepositoryEvents(ctx, owner, name, opt)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			if event.GetCreatedAt().Before(since) {
				return all, nil
			}
			all = append(all, event)
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}

// ListOrganizationEventsSince returns the authenticated user's view of
// org's event feed newer than since, newest first.
func ListOrganizationEventsSince(ctx context.Context, client *github.Client, org string, since time.Time) ([]*github.Event, error) {
	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, err
	}

	opt := &github.ListOptions{PerPage: 100}
	var all []*github.Event
	for {
		events, resp, err := client.Activity.ListUserEventsForOrganization(ctx, org, user.GetLogin(), opt)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			if event.GetCreatedAt().Before(since) {
				return all, nil
			}
			all = append(all, event)
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}
