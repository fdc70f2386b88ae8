//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/a-z-nath/portfolio-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type projectPayload struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	HTMLURL string   `json:"html_url"`
	Stars   int      `json:"stargazers_count"`
	Topics  []string `json:"topics"`
}

type projectsPayload struct {
	Projects []projectPayload `json:"projects"`
	Count    int              `json:"count"`
	LastSync *string          `json:"lastSync"`
}

type syncPayload struct {
	Message string `json:"message"`
	Stats   struct {
		Created int `json:"created"`
		Updated int `json:"updated"`
		Total   int `json:"total"`
	} `json:"stats"`
	CacheInvalidated bool `json:"cacheInvalidated"`
}

type apiError struct {
	status int
	detail string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.detail, e.status)
}

func TestPortfolioSiteContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	timestamp := matchers.Regex("2024-06-12T10:00:00Z", "\\d{4}-\\d{2}-\\d{2}T\\d{2}:\\d{2}:\\d{2}(\\.\\d+)?Z")

	pact.AddInteraction().
		Given(pacttest.StateFeaturedProjects).
		UponReceiving("a request for the featured projects").
		WithRequest("GET", "/api/projects").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.Header("X-Cache", matchers.Term("MISS", "HIT|MISS"))
			b.Header("Cache-Control", matchers.S("public, s-maxage=3600, stale-while-revalidate=86400"))
			b.JSONBody(matchers.Map{
				"projects": matchers.EachLike(matchers.Map{
					"id":               matchers.Like(pacttest.FeaturedProjectID),
					"name":             matchers.Like(pacttest.FeaturedProjectName),
					"html_url":         matchers.Like(pacttest.FeaturedProjectURL),
					"stargazers_count": matchers.Like(pacttest.FeaturedProjectStar),
					"topics":           matchers.EachLike("featured", 1),
					"featured":         matchers.Like(true),
				}, 1),
				"count":    matchers.Like(1),
				"lastSync": timestamp,
			})
		})

	pact.AddInteraction().
		UponReceiving("a request describing the sync endpoint").
		WithRequest("GET", "/api/sync").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message":   matchers.Like("Sync endpoint is working. Use POST with authorization to sync."),
				"endpoints": matchers.Like(map[string]string{"sync": "POST /api/sync"}),
			})
		})

	pact.AddInteraction().
		UponReceiving("an unauthenticated sync request").
		WithRequest("POST", "/api/sync").
		WillRespondWith(http.StatusUnauthorized, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"error": matchers.S("Unauthorized")})
		})

	pact.AddInteraction().
		Given(pacttest.StateGitHubFeatured).
		UponReceiving("an authorized sync request").
		WithRequest("POST", "/api/sync", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", matchers.S("Bearer "+pacttest.SyncToken))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.Like("Sync completed successfully"),
				"stats": matchers.Map{
					"created": matchers.Like(1),
					"updated": matchers.Like(0),
					"total":   matchers.Like(1),
				},
				"cacheInvalidated": matchers.Like(true),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortfolioClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		projects, err := client.FeaturedProjects(ctx)
		if err != nil {
			return fmt.Errorf("featured projects: %w", err)
		}
		if projects.Count != len(projects.Projects) || projects.Count == 0 {
			return fmt.Errorf("unexpected projects payload %+v", projects)
		}

		description, err := client.get(ctx, "/api/sync")
		if err != nil {
			return fmt.Errorf("describe sync: %w", err)
		}
		if description["message"] == "" {
			return fmt.Errorf("expected sync description message")
		}

		if _, err := client.Sync(ctx, ""); err == nil {
			return fmt.Errorf("expected unauthenticated sync to fail")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusUnauthorized {
			return fmt.Errorf("expected 401, got %v", err)
		}

		synced, err := client.Sync(ctx, pacttest.SyncToken)
		if err != nil {
			return fmt.Errorf("authorized sync: %w", err)
		}
		if !synced.CacheInvalidated {
			return fmt.Errorf("expected cache to be invalidated after sync")
		}
		return nil
	})
	require.NoError(t, err)
}

type portfolioClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortfolioClient(config pactconsumer.MockServerConfig) *portfolioClient {
	return &portfolioClient{
		baseURL:    fmt.Sprintf("http://%s:%d", config.Host, config.Port),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *portfolioClient) FeaturedProjects(ctx context.Context) (*projectsPayload, error) {
	var payload projectsPayload
	if err := c.do(ctx, http.MethodGet, "/api/projects", "", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *portfolioClient) Sync(ctx context.Context, token string) (*syncPayload, error) {
	var payload syncPayload
	if err := c.do(ctx, http.MethodPost, "/api/sync", token, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *portfolioClient) get(ctx context.Context, path string) (map[string]any, error) {
	payload := map[string]any{}
	if err := c.do(ctx, http.MethodGet, path, "", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *portfolioClient) do(ctx context.Context, method, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return apiError{status: resp.StatusCode, detail: body.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
