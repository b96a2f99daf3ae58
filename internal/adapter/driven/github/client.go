// Package github implements the RemoteFetcher port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/pullwatch/internal/domain/model"
	"github.com/ericfisherdev/pullwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RemoteFetcher = (*Client)(nil)

// userAgent identifies this client to the GitHub API, which rejects
// requests without a User-Agent header.
const userAgent = "pullwatch"

// requestTimeout bounds a single head fetch so a hung connection cannot
// stall the reconciliation loop. A timeout classifies as ErrRemoteUnavailable.
const requestTimeout = 30 * time.Second

// Client implements the driven.RemoteFetcher port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. token auth (Authorization: token <credential>, skipped when token is empty)
//  2. httpcache (ETag-based conditional request caching)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//
// The client never retries a failed fetch; retry policy belongs to the
// reconciliation loop.
func NewClient(token string) *Client {
	var rt http.RoundTripper = http.DefaultTransport
	if token != "" {
		rt = &authTransport{base: rt, token: token}
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = rt

	httpClient := github_ratelimit.NewClient(cacheTransport)
	httpClient.Timeout = requestTimeout

	client := gh.NewClient(httpClient)
	client.UserAgent = userAgent

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	if token != "" {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		clone := *httpClient
		clone.Transport = &authTransport{base: base, token: token}
		httpClient = &clone
	}

	client := gh.NewClient(httpClient)
	client.UserAgent = userAgent

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// authTransport attaches the configured access token to every request using
// the "token" authorization scheme.
type authTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "token "+t.token)
	return t.base.RoundTrip(clone)
}

// HeadSHA retrieves the head commit identifier of the given branch via
// GET /repos/{owner}/{repo}/commits/{branch}. Network failures map to
// ErrRemoteUnavailable, everything else (non-2xx status, malformed body,
// missing sha field) to ErrRemoteProtocol.
func (c *Client) HeadSHA(ctx context.Context, ref model.RemoteRef) (string, error) {
	commit, resp, err := c.gh.Repositories.GetCommit(ctx, ref.Owner, ref.Repo, ref.Branch, nil)
	if err != nil {
		return "", classifyFetchError(ref, err)
	}

	logRateLimit(resp, ref)

	sha := commit.GetSHA()
	if sha == "" {
		return "", fmt.Errorf("%w: commit response for %s@%s has no sha", driven.ErrRemoteProtocol, ref.FullName(), ref.Branch)
	}

	return sha, nil
}

// classifyFetchError maps a go-github error onto the port's error taxonomy.
// Transport-level failures (url.Error, timeouts) mean the API was never
// reached; anything the server actually said is a protocol error.
func classifyFetchError(ref model.RemoteRef, err error) error {
	var urlErr *url.Error
	switch {
	case errors.As(err, &urlErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: fetching head of %s@%s: %v", driven.ErrRemoteUnavailable, ref.FullName(), ref.Branch, err)
	default:
		return fmt.Errorf("%w: fetching head of %s@%s: %v", driven.ErrRemoteProtocol, ref.FullName(), ref.Branch, err)
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, ref model.RemoteRef) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"repo", ref.FullName(),
		"branch", ref.Branch,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
