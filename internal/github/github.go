// Package github discovers public repositories through the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v62/github"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/schema"
)

// perPage is the largest page size the API accepts.
const perPage = 100

// defaultHTTPTimeout bounds each API request.
const defaultHTTPTimeout = 30 * time.Second

// ErrUserNotFound is returned when the owner does not exist.
var ErrUserNotFound = errors.New("github user not found")

// Options tunes repository discovery.
type Options struct {
	SkipForks    bool
	SkipArchived bool
	HTTPClient   *http.Client // nil uses a client with a default timeout
}

// Source implements contract.RepositorySource with anonymous API calls,
// so only public repositories are visible.
type Source struct {
	client *gogithub.Client
	opts   Options
}

var _ contract.RepositorySource = &Source{} // Compile-time check

// NewSource creates a Source for the API rooted at baseURL.
func NewSource(baseURL string, opts Options) (*Source, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	client := gogithub.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}
	return &Source{client: client, opts: opts}, nil
}

// ListRepositories implements the RepositorySource interface. Repositories
// come back sorted by full name, following every page.
func (s *Source) ListRepositories(ctx context.Context, owner string) ([]schema.RepositoryIdentity, error) {
	opts := &gogithub.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "full_name",
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	}

	var repos []schema.RepositoryIdentity
	for {
		page, resp, err := s.client.Repositories.ListByUser(ctx, owner, opts)
		if err != nil {
			return nil, describeError(owner, resp, err)
		}
		for _, r := range page {
			if s.skip(r) {
				continue
			}
			repos = append(repos, toIdentity(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

// skip reports whether r is filtered out by the options.
func (s *Source) skip(r *gogithub.Repository) bool {
	switch {
	case r.GetPrivate():
		return true
	case s.opts.SkipForks && r.GetFork():
		return true
	case s.opts.SkipArchived && r.GetArchived():
		return true
	}
	return false
}

// describeError turns API failures into actionable messages.
func describeError(owner string, resp *gogithub.Response, err error) error {
	var rateErr *gogithub.RateLimitError
	switch {
	case errors.As(err, &rateErr):
		return fmt.Errorf("GitHub rate limit exceeded until %s: %w", rateErr.Rate.Reset.Format(time.RFC3339), err)
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrUserNotFound, owner)
	}
	return fmt.Errorf("cannot list repositories of %s: %w", owner, err)
}

// toIdentity copies the fields used for ranking and display.
func toIdentity(r *gogithub.Repository) schema.RepositoryIdentity {
	return schema.RepositoryIdentity{
		Name:       r.GetName(),
		FullName:   r.GetFullName(),
		URL:        r.GetHTMLURL(),
		CloneURL:   r.GetCloneURL(),
		Language:   r.GetLanguage(),
		Stars:      r.GetStargazersCount(),
		Forks:      r.GetForksCount(),
		Watchers:   r.GetWatchersCount(),
		OpenIssues: r.GetOpenIssuesCount(),
		Fork:       r.GetFork(),
		Archived:   r.GetArchived(),
	}
}
