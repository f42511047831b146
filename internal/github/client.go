// internal/github/client.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github-top-tracker/internal/apperrors"
	"github-top-tracker/internal/model"
)

// searchQuery matches every repository with at least one star; combined with
// a stars sort it yields the global ranking.
const searchQuery = "stars:>1"

// Client is a wrapper around the go-github client exposing the ranking list
// and raw commit events.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance. An empty token
// leaves requests unauthenticated, which works within GitHub's anonymous rate
// limit. Retries and rate-limit waits happen in the HTTP transport.
func NewClient(token string, logger *slog.Logger) *Client {
	base := &http.Client{Transport: &retryTransport{next: http.DefaultTransport}}

	httpClient := base
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	return &Client{
		gh:     github.NewClient(httpClient),
		logger: logger,
	}
}

// WithBaseURL points the client at a different API root. Intended for tests
// against a stub server.
func (c *Client) WithBaseURL(baseURL string) error {
	gh, err := c.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return err
	}
	c.gh = gh
	return nil
}

// TopRepositories fetches the current most-starred repositories, best first.
// Ordering is the provider's; ties are not re-sorted.
func (c *Client) TopRepositories(ctx context.Context, limit int) ([]model.RepositorySummary, error) {
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	}

	c.logger.Debug("Fetching top ranked repositories", "limit", limit)
	result, _, err := c.gh.Search.Repositories(ctx, searchQuery, opts)
	if err != nil {
		return nil, &apperrors.ProviderError{Op: "search top repositories", Err: err}
	}

	summaries := make([]model.RepositorySummary, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		summaries = append(summaries, toSummary(repo))
	}
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Commits fetches commit events for a repository from since forward. A zero
// since fetches the full history. It handles API pagination transparently.
func (c *Client) Commits(ctx context.Context, owner, name string, since time.Time) ([]model.CommitEvent, error) {
	var events []model.CommitEvent

	opts := &github.CommitsListOptions{
		Since: since,
		ListOptions: github.ListOptions{
			PerPage: 100, // Max per page
		},
	}

	for {
		c.logger.Debug("Fetching commits page", "owner", owner, "repo", name, "page", opts.Page)

		commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, &apperrors.ProviderError{
				Op:  fmt.Sprintf("list commits for %s/%s", owner, name),
				Err: err,
			}
		}

		for _, commit := range commits {
			events = append(events, model.CommitEvent{
				AuthorName: commit.GetCommit().GetAuthor().GetName(),
				Date:       commit.GetCommit().GetAuthor().GetDate().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return events, nil
}

// toSummary translates a github.Repository object to our internal summary.
func toSummary(r *github.Repository) model.RepositorySummary {
	var language *string
	if l := r.GetLanguage(); l != "" {
		language = &l
	}
	return model.RepositorySummary{
		Owner:      r.GetOwner().GetLogin(),
		Name:       r.GetName(),
		Stars:      r.GetStargazersCount(),
		Watchers:   r.GetWatchersCount(),
		Forks:      r.GetForksCount(),
		OpenIssues: r.GetOpenIssuesCount(),
		Language:   language,
	}
}
