// Package newsapi provides a client for the NewsAPI /v2/everything endpoint
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/models"
)

const (
	DefaultBaseURL   = "https://newsapi.org/v2"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second; NewsAPI free tier is tight
)

// Client implements the NewsSearchClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new NewsAPI client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a NewsAPI error response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NewsAPI error: %s (code: %s, status: %d)", e.Message, e.Code, e.StatusCode)
}

type searchResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search runs a relevance-ordered article search. Zero results return an
// empty slice, not an error.
func (c *Client) Search(ctx context.Context, query interfaces.NewsQuery) ([]*models.NewsItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query.Query)
	params.Set("apiKey", c.apiKey)

	if !query.From.IsZero() {
		params.Set("from", query.From.Format("2006-01-02"))
	}
	language := query.Language
	if language == "" {
		language = "en"
	}
	params.Set("language", language)

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "relevancy"
	}
	params.Set("sortBy", sortBy)

	reqURL := fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("query", query.Query).Msg("NewsAPI search request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.AdapterUnavailable("newsapi everything", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.AdapterUnavailable("newsapi everything", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, models.MalformedResponse("newsapi everything", err)
	}

	// NewsAPI signals errors in the body with status != "ok"
	if resp.StatusCode != http.StatusOK || parsed.Status != "ok" {
		return nil, models.AdapterUnavailable("newsapi everything", &APIError{
			StatusCode: resp.StatusCode,
			Code:       parsed.Code,
			Message:    parsed.Message,
		})
	}

	items := make([]*models.NewsItem, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, a.PublishedAt)
		items = append(items, &models.NewsItem{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	return items, nil
}

// Ensure Client implements NewsSearchClient
var _ interfaces.NewsSearchClient = (*Client)(nil)
