// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be a number, a string, or "NA".
type flexFloat64 struct {
	value float64
	set   bool
}

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.value = num
		f.set = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "NA" || s == "N/A" {
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f.value = num
		f.set = true
		return nil
	}
	// null or unexpected shape: leave unset
	return nil
}

// ptr returns the parsed value, or nil when absent or non-finite
func (f flexFloat64) ptr() *float64 {
	if !f.set || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
		return nil
	}
	v := f.value
	return &v
}

// Client implements the MarketDataClient interface
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

// NewClient creates a new EODHD client
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

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.AdapterUnavailable("eodhd "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.AdapterUnavailable("eodhd "+path, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return models.MalformedResponse("eodhd "+path, err)
	}

	return nil
}

// GetEOD retrieves end-of-day price data, most recent bar first
func (c *Client) GetEOD(ctx context.Context, ticker string, opts ...interfaces.EODOption) (*models.EODResponse, error) {
	params := &interfaces.EODParams{
		Period: "d",
		Order:  "d", // descending (most recent first)
	}

	for _, opt := range opts {
		opt(params)
	}

	urlParams := url.Values{}
	urlParams.Set("period", params.Period)
	urlParams.Set("order", params.Order)

	if !params.From.IsZero() {
		urlParams.Set("from", params.From.Format("2006-01-02"))
	}
	if !params.To.IsZero() {
		urlParams.Set("to", params.To.Format("2006-01-02"))
	}

	path := fmt.Sprintf("/eod/%s", ticker)

	var bars []eodBarResponse
	if err := c.get(ctx, path, urlParams, &bars); err != nil {
		return nil, err
	}

	result := &models.EODResponse{
		Data: make([]models.EODBar, len(bars)),
	}

	for i, bar := range bars {
		date, _ := time.Parse("2006-01-02", bar.Date)
		result.Data[i] = models.EODBar{
			Date:     date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: bar.AdjustedClose,
			Volume:   bar.Volume,
		}
	}

	return result, nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// GetSnapshot retrieves the current quote and fundamentals for a ticker.
// The real-time quote supplies price and day change; fundamentals supply
// name, sector, valuation. A fundamentals failure degrades the snapshot
// rather than failing it, as long as the quote succeeded.
func (c *Client) GetSnapshot(ctx context.Context, ticker string) (*models.Snapshot, error) {
	quote, err := c.getRealTime(ctx, ticker)
	if err != nil {
		return nil, err
	}

	snapshot := &models.Snapshot{
		Ticker:        ticker,
		Name:          ticker,
		Sector:        models.SectorOther,
		Price:         quote.Close,
		PercentChange: quote.ChangePct,
	}

	fundamentals, err := c.getFundamentals(ctx, ticker)
	if err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("Fundamentals unavailable, snapshot degraded to quote only")
		return snapshot, nil
	}

	if fundamentals.General.Name != "" {
		snapshot.Name = fundamentals.General.Name
	}
	if fundamentals.General.Sector != "" {
		snapshot.Sector = fundamentals.General.Sector
	}
	snapshot.PE = fundamentals.Highlights.PERatio.ptr()
	snapshot.EPS = fundamentals.Highlights.EarningsShare.ptr()
	if mc := fundamentals.Highlights.MarketCapitalization.ptr(); mc != nil {
		snapshot.MarketCap = *mc
	}

	return snapshot, nil
}

// realTimeResponse represents the /real-time endpoint response
type realTimeResponse struct {
	Code      string      `json:"code"`
	Close     flexFloat64 `json:"close"`
	ChangePct flexFloat64 `json:"change_p"`
	Volume    int64       `json:"volume"`
}

type realTimeQuote struct {
	Close     float64
	ChangePct float64
}

func (c *Client) getRealTime(ctx context.Context, ticker string) (*realTimeQuote, error) {
	path := fmt.Sprintf("/real-time/%s", ticker)

	var resp realTimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	quote := &realTimeQuote{}
	if v := resp.Close.ptr(); v != nil {
		quote.Close = *v
	}
	if v := resp.ChangePct.ptr(); v != nil {
		quote.ChangePct = *v
	}
	return quote, nil
}

// fundamentalsResponse represents the API response structure
type fundamentalsResponse struct {
	General struct {
		Code   string `json:"Code"`
		Name   string `json:"Name"`
		Sector string `json:"Sector"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization flexFloat64 `json:"MarketCapitalization"`
		PERatio              flexFloat64 `json:"PERatio"`
		EarningsShare        flexFloat64 `json:"EarningsShare"`
	} `json:"Highlights"`
}

func (c *Client) getFundamentals(ctx context.Context, ticker string) (*fundamentalsResponse, error) {
	path := fmt.Sprintf("/fundamentals/%s", ticker)

	var resp fundamentalsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
