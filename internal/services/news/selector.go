// Package news selects the single most relevant headline per ticker
package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/models"
)

// Compile-time interface check
var _ interfaces.HeadlineSelector = (*Selector)(nil)

// Selector runs staged boolean queries against the news search provider,
// most specific first, and takes the first usable headline.
type Selector struct {
	client interfaces.NewsSearchClient
	logger *common.Logger

	recencyDays int
	strictTitle bool
	language    string
	now         func() time.Time
}

// SelectorOption configures the selector
type SelectorOption func(*Selector)

// WithRecencyDays sets the maximum article age per stage
func WithRecencyDays(days int) SelectorOption {
	return func(s *Selector) {
		s.recencyDays = days
	}
}

// WithStrictTitle requires the ticker or company name to appear in the headline
func WithStrictTitle(strict bool) SelectorOption {
	return func(s *Selector) {
		s.strictTitle = strict
	}
}

// WithLanguage sets the search language
func WithLanguage(language string) SelectorOption {
	return func(s *Selector) {
		s.language = language
	}
}

// NewSelector creates a headline selector
func NewSelector(client interfaces.NewsSearchClient, logger *common.Logger, opts ...SelectorOption) *Selector {
	s := &Selector{
		client:      client,
		logger:      logger,
		recencyDays: 4,
		language:    "en",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// stageQueries builds the staged boolean queries for a ticker, most
// specific to broadest. Hiring noise is excluded at every stage.
func stageQueries(coreName, tickerRoot string) []string {
	subject := fmt.Sprintf("(%q OR %q)", coreName, tickerRoot)
	if coreName == "" {
		subject = fmt.Sprintf("%q", tickerRoot)
	}

	catalyst := subject + ` AND (stock OR "order book" OR "L1 bidder" OR results OR breakout OR contract OR multibagger)`
	sentiment := subject + ` AND (market OR "target price" OR investment)`
	broad := fmt.Sprintf("%q", coreName)
	if coreName == "" {
		broad = fmt.Sprintf("%q", tickerRoot)
	}

	const exclude = ` NOT (jobs OR hiring)`
	return []string{
		catalyst + exclude,
		sentiment + exclude,
		broad + exclude,
	}
}

// Select runs the staged relevance search for one ticker. It never
// returns an error: an unreachable provider yields the service-unavailable
// marker, exhausted stages yield the no-catalyst marker.
func (s *Selector) Select(ctx context.Context, ticker, companyName string) models.NewsSelection {
	coreName := models.CoreName(companyName)
	tickerRoot := models.TickerRoot(ticker)
	from := s.now().AddDate(0, 0, -s.recencyDays)

	for stage, query := range stageQueries(coreName, tickerRoot) {
		articles, err := s.client.Search(ctx, interfaces.NewsQuery{
			Query:    query,
			From:     from,
			Language: s.language,
			SortBy:   "relevancy",
		})
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Int("stage", stage+1).Err(err).Msg("News search failed")
			return models.NewsSelection{Marker: models.NewsMarkerUnavailable}
		}

		if item := s.pickFirst(articles, coreName, tickerRoot); item != nil {
			s.logger.Debug().Str("ticker", ticker).Int("stage", stage+1).Str("title", item.Title).Msg("Headline selected")
			return models.NewsSelection{Item: item}
		}
	}

	return models.NewsSelection{Marker: models.NewsMarkerNoCatalyst}
}

// pickFirst returns the first article passing the title checks. Articles
// arrive relevance-ordered from the provider.
func (s *Selector) pickFirst(articles []*models.NewsItem, coreName, tickerRoot string) *models.NewsItem {
	for _, a := range articles {
		title := strings.ToLower(a.Title)

		// Residual hiring noise the query exclusion missed
		if strings.Contains(title, "jobs") || strings.Contains(title, "hiring") {
			continue
		}

		if s.strictTitle && !titleMentions(title, coreName, tickerRoot) {
			continue
		}

		return a
	}
	return nil
}

func titleMentions(lowerTitle, coreName, tickerRoot string) bool {
	if coreName != "" && strings.Contains(lowerTitle, strings.ToLower(coreName)) {
		return true
	}
	if tickerRoot != "" && strings.Contains(lowerTitle, strings.ToLower(tickerRoot)) {
		return true
	}
	return false
}
