package remote

import (
	"context"

	"github.com/google/go-github/v27/github"
	"golang.org/x/oauth2"
)

// NewClient builds a GitHub API client authenticated with the resolved
// token.
func NewClient(ctx context.Context) (*github.Client, error) {
	token, err := ResolveToken()
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc), nil
}
