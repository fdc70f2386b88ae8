package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"
	// DefaultUserAgent identifies outbound requests.
	DefaultUserAgent = "portfolio-api/1.0"

	acceptHeader    = "application/vnd.github.v3+json"
	maxErrorBodyLen = 4 << 10
)

// Repository is the subset of the GitHub repository payload the sync consumes.
type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Homepage        *string   `json:"homepage"`
	Language        *string   `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	Topics          []string  `json:"topics"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type searchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []Repository `json:"items"`
}

// StatusError reports a non-2xx response from the GitHub API.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github API error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("github API error: %s", e.Status)
}

// Client calls the GitHub REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	baseURL    string
	token      string
	timeout    time.Duration
	limiter    *rate.Limiter
	userAgent  string
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise or a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = strings.TrimSpace(baseURL) }
}

// WithToken authenticates requests with a bearer token, raising the API rate limit.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = strings.TrimSpace(token) }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.timeout = timeout }
}

// WithRateLimit throttles outbound requests.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *clientOptions) { o.limiter = rate.NewLimiter(limit, burst) }
}

// NewClient instantiates the GitHub client with sane defaults.
func NewClient(opts ...Option) (*Client, error) {
	o := clientOptions{
		baseURL:   DefaultBaseURL,
		timeout:   10 * time.Second,
		userAgent: DefaultUserAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 5),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.baseURL == "" {
		return nil, errors.New("github base URL is required")
	}
	if _, err := url.Parse(o.baseURL); err != nil {
		return nil, fmt.Errorf("parse github base URL: %w", err)
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.token != "" {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		authed := *httpClient
		authed.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token, TokenType: "Bearer"}),
			Base:   base,
		}
		httpClient = &authed
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		userAgent:  o.userAgent,
		limiter:    o.limiter,
	}, nil
}

// SearchRepositories runs a single repository search and returns the first page of items.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]Repository, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("github client not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for github rate limiter: %w", err)
		}
	}
	endpoint := c.baseURL + "/search/repositories?" + url.Values{"q": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call github API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(resp.Body),
		}
	}
	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode github search response: %w", err)
	}
	if payload.Items == nil {
		payload.Items = []Repository{}
	}
	return payload.Items, nil
}

// FeaturedQuery builds the search query selecting an owner's repositories tagged with topic.
func FeaturedQuery(owner, topic string) string {
	return fmt.Sprintf("user:%s topic:%s", strings.TrimSpace(owner), strings.TrimSpace(topic))
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyLen))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		return strings.TrimSpace(payload.Message)
	}
	return ""
}
