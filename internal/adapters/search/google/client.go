package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/pkg/constants"
)

// Client implements the SearchPort interface against the Google Custom Search
// JSON API. An unconfigured client (missing key or engine id) reports
// ErrSearchUnavailable instead of failing, so the dispatch flow can skip the
// search path entirely.
type Client struct {
	apiKey     string
	cx         string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewClient creates a new custom search client. A non-positive timeout or an
// out-of-range maxResults falls back to the defaults.
func NewClient(apiKey, cx, baseURL string, timeout time.Duration, maxResults int) *Client {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if timeout <= 0 {
		timeout = constants.SearchTimeout
	}
	if maxResults < 1 || maxResults > constants.MaxSearchResults {
		maxResults = constants.MaxSearchResults
	}
	return &Client{
		apiKey:     apiKey,
		cx:         cx,
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search runs a query and returns up to limit results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ports.SearchResult, error) {
	if c.apiKey == "" || c.cx == "" {
		return nil, ports.ErrSearchUnavailable
	}
	if limit < 1 || limit > c.maxResults {
		limit = c.maxResults
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]ports.SearchResult, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		results = append(results, ports.SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
		if len(results) == limit {
			break
		}
	}

	return results, nil
}
