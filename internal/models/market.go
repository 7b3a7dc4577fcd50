// Package models defines data structures for marketintel
package models

import (
	"strings"
	"time"
)

// EODBar represents one end-of-day OHLCV bar.
// Series are sorted descending (most recent bar first).
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// EODResponse wraps a fetched EOD bar series
type EODResponse struct {
	Data []EODBar `json:"data"`
}

// Snapshot holds the current quote and fundamentals for a ticker.
// PE and EPS are nil when the provider has no value for them.
type Snapshot struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	Price         float64  `json:"price"`
	PercentChange float64  `json:"percent_change"`
	PE            *float64 `json:"pe,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
	MarketCap     float64  `json:"market_cap,omitempty"`
}

// NewsItem is one article headline returned by the news search provider
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsMarker is a neutral stand-in used when no headline was selected
type NewsMarker string

const (
	// NewsMarkerNone means a headline was selected
	NewsMarkerNone NewsMarker = ""
	// NewsMarkerNoCatalyst means the search ran but found nothing usable
	NewsMarkerNoCatalyst NewsMarker = "no_catalyst"
	// NewsMarkerUnavailable means the news provider could not be reached
	NewsMarkerUnavailable NewsMarker = "service_unavailable"
)

// NewsSelection is the outcome of the headline selector for one ticker:
// either Item is set, or Marker says why it is not.
type NewsSelection struct {
	Item   *NewsItem  `json:"item,omitempty"`
	Marker NewsMarker `json:"marker,omitempty"`
}

// TrendType classifies the price trend of a ticker
type TrendType string

const (
	TrendBullish       TrendType = "BULLISH"
	TrendConsolidating TrendType = "CONSOLIDATING"
)

// Origin records how a ticker entered the scan
type Origin string

const (
	OriginWatchlist Origin = "watchlist"
	OriginDiscovery Origin = "discovery"
)

// TickerRecord is one fully evaluated ticker within a scan run.
// Records are built fresh each run and never persisted.
type TickerRecord struct {
	Ticker        string        `json:"ticker"`
	Name          string        `json:"name"`
	Sector        string        `json:"sector"`
	Price         float64       `json:"price"`
	PercentChange float64       `json:"percent_change"`
	PERatio       *float64      `json:"pe_ratio,omitempty"`
	EPSTrailing   *float64      `json:"eps_trailing,omitempty"`
	Trend         TrendType     `json:"trend"`
	IsValue       bool          `json:"is_value"`
	Origin        Origin        `json:"origin"`
	News          NewsSelection `json:"news"`
}

// SectorOther is the sector assigned when the provider reports none
const SectorOther = "Other"

// TickerRoot strips the exchange suffix from a ticker ("CBA.AU" -> "CBA")
func TickerRoot(ticker string) string {
	if idx := strings.LastIndex(ticker, "."); idx > 0 {
		return ticker[:idx]
	}
	return ticker
}

// CoreName returns the first whitespace-delimited token of a company name
func CoreName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
