// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/repo-analyzer/internal/domain"
)

const (
	// perPage is the largest page size the REST API accepts.
	perPage = 100
	// apiTimeLayout is the ISO 8601 UTC form used for since/until.
	apiTimeLayout = "2006-01-02T15:04:05Z"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchAll retrieves every page of a resource kind, concatenated in page order.
	FetchAll(ctx context.Context, repo domain.RepositoryRef, kind domain.ResourceKind, filters domain.Filters) ([]domain.RawRecord, error)
	// FetchRepositoryInfo looks up repository metadata, including the default branch.
	FetchRepositoryInfo(ctx context.Context, repo domain.RepositoryRef) (*domain.RepositoryInfo, error)
}

// Options configures NewGitHubGateway. Zero values fall back to github.com.
// Token is optional; without it requests are anonymous and heavily rate limited.
// RequestTimeout bounds each HTTP request and zero disables it. RateLimitMaxWait
// is the longest single sleep allowed on a secondary rate limit; zero disables
// waiting entirely and every limit response surfaces as an error.
type Options struct {
	Token            string
	APIEndpoint      string
	GraphQLEndpoint  string
	RequestTimeout   time.Duration
	RateLimitMaxWait time.Duration
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// repositoryInfoQuery fetches the metadata shown in the report header.
type repositoryInfoQuery struct {
	Repository struct {
		NameWithOwner    string
		Description      string
		CreatedAt        githubv4.DateTime
		StargazerCount   int
		DefaultBranchRef struct {
			Name string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (*GitHubGateway, error) {
	// The waiter retries on its own whenever a secondary limit has already
	// reset, so it is only installed when waiting was asked for.
	var base http.RoundTripper = http.DefaultTransport
	if opts.RateLimitMaxWait > 0 {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
			github_ratelimit.WithSingleSleepLimit(opts.RateLimitMaxWait, func(cbCtx *github_ratelimit.CallbackContext) {
				if cbCtx.Request != nil {
					logger.Warn("secondary rate limit wait exceeds limit", "path", cbCtx.Request.URL.Path, "max_wait", opts.RateLimitMaxWait)
				}
			}))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		base = rateLimitWaiter
	}

	transport := base
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   base,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: opts.RequestTimeout}

	restClient := github.NewClient(httpClient)
	if opts.APIEndpoint != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.APIEndpoint, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API endpoint %q: %w", opts.APIEndpoint, err)
		}
		restClient.BaseURL = baseURL
	}

	g := &GitHubGateway{restClient: restClient, logger: logger}
	// GraphQL rejects anonymous requests, so the client only exists with a token.
	if opts.Token != "" {
		if opts.GraphQLEndpoint != "" {
			g.graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLEndpoint, httpClient)
		} else {
			g.graphqlClient = githubv4.NewClient(httpClient)
		}
	}
	return g, nil
}

// FetchAll probes the first page with a HEAD request to learn the page count
// from the Link header, then fetches every page in order. Any failure aborts
// the whole fetch; nothing is retried.
func (g *GitHubGateway) FetchAll(ctx context.Context, repo domain.RepositoryRef, kind domain.ResourceKind, filters domain.Filters) ([]domain.RawRecord, error) {
	if !repo.Valid() {
		return nil, fmt.Errorf("fetching %s: %w", kind, domain.ErrInvalidRepository)
	}

	query := buildQuery(kind, filters)
	g.logger.Debug("discovering pages", "resource", kind, "repo", repo.String())

	pageCount, err := g.discoverPages(ctx, repo, kind, query)
	if err != nil {
		return nil, newFetchError(string(kind), err)
	}

	if pageCount == 0 {
		records, err := g.fetchPage(ctx, repo, kind, query)
		if err != nil {
			return nil, newFetchError(string(kind), err)
		}
		g.logger.Debug("fetched single page", "resource", kind, "records", len(records))
		return records, nil
	}

	var records []domain.RawRecord
	for page := 1; page <= pageCount; page++ {
		query.Set("page", strconv.Itoa(page))
		g.logger.Debug("fetching page", "resource", kind, "page", page, "of", pageCount)
		pageRecords, err := g.fetchPage(ctx, repo, kind, query)
		if err != nil {
			return nil, newFetchError(string(kind), err)
		}
		records = append(records, pageRecords...)
	}
	g.logger.Debug("fetched all pages", "resource", kind, "pages", pageCount, "records", len(records))
	return records, nil
}

// discoverPages issues the metadata-only probe and resolves the page count.
func (g *GitHubGateway) discoverPages(ctx context.Context, repo domain.RepositoryRef, kind domain.ResourceKind, query url.Values) (int, error) {
	req, err := g.restClient.NewRequest(http.MethodHead, resourcePath(repo, kind, query), nil)
	if err != nil {
		return 0, err
	}
	resp, err := g.restClient.Do(ctx, req, nil)
	if err != nil {
		return 0, err
	}
	link := resp.Header.Get("Link")
	if link == "" {
		return 0, nil
	}
	return ResolvePageCount(link), nil
}

func (g *GitHubGateway) fetchPage(ctx context.Context, repo domain.RepositoryRef, kind domain.ResourceKind, query url.Values) ([]domain.RawRecord, error) {
	req, err := g.restClient.NewRequest(http.MethodGet, resourcePath(repo, kind, query), nil)
	if err != nil {
		return nil, err
	}
	var records []domain.RawRecord
	if _, err := g.restClient.Do(ctx, req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchRepositoryInfo looks up repository metadata over GraphQL. It needs a token.
func (g *GitHubGateway) FetchRepositoryInfo(ctx context.Context, repo domain.RepositoryRef) (*domain.RepositoryInfo, error) {
	if g.graphqlClient == nil {
		return nil, ErrNoCredentials
	}
	if !repo.Valid() {
		return nil, domain.ErrInvalidRepository
	}

	var q repositoryInfoQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(repo.Owner),
		"name":  githubv4.String(repo.Name),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for repository info: %w", err)
	}
	return &domain.RepositoryInfo{
		NameWithOwner: q.Repository.NameWithOwner,
		Description:   q.Repository.Description,
		DefaultBranch: q.Repository.DefaultBranchRef.Name,
		CreatedAt:     q.Repository.CreatedAt.Time,
		Stars:         q.Repository.StargazerCount,
	}, nil
}

// buildQuery encodes the filters for a resource kind. The branch travels as
// "sha" for commits and "base" for pulls and issues.
func buildQuery(kind domain.ResourceKind, filters domain.Filters) url.Values {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	if kind != domain.KindCommits {
		query.Set("state", "all")
	}
	if filters.From != nil {
		query.Set("since", filters.From.UTC().Format(apiTimeLayout))
	}
	if filters.To != nil {
		query.Set("until", filters.To.UTC().Format(apiTimeLayout))
	}
	if filters.Branch != "" {
		query.Set(kind.BranchParam(), filters.Branch)
	}
	return query
}

func resourcePath(repo domain.RepositoryRef, kind domain.ResourceKind, query url.Values) string {
	return fmt.Sprintf("repos/%s/%s/%s?%s",
		url.PathEscape(repo.Owner), url.PathEscape(repo.Name), kind, query.Encode())
}
