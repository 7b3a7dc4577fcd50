// Package interfaces defines service contracts for marketintel
package interfaces

import (
	"context"
	"time"

	"marketintel/internal/models"
)

// MarketDataClient provides price history and fundamentals for tickers
type MarketDataClient interface {
	// GetEOD retrieves end-of-day bars, most recent first. May return an
	// empty series for unknown or delisted tickers.
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) (*models.EODResponse, error)

	// GetSnapshot retrieves the current quote and fundamentals for a ticker.
	// Individual fields may be absent.
	GetSnapshot(ctx context.Context, ticker string) (*models.Snapshot, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From   time.Time
	To     time.Time
	Period string // d=daily, w=weekly, m=monthly
	Order  string // a=ascending, d=descending
}

// WithDateRange sets the date range for an EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// WithPeriod sets the bar period for an EOD query
func WithPeriod(period string) EODOption {
	return func(p *EODParams) {
		p.Period = period
	}
}

// NewsQuery describes one news search request
type NewsQuery struct {
	Query    string    // free-text boolean query
	From     time.Time // earliest publish date (zero = no restriction)
	Language string    // ISO 639-1 code, default "en"
	SortBy   string    // "relevancy", "popularity", or "publishedAt"
}

// NewsSearchClient provides relevance-ordered article search.
// Search must return an empty slice, not an error, for zero results.
type NewsSearchClient interface {
	Search(ctx context.Context, query NewsQuery) ([]*models.NewsItem, error)
}
