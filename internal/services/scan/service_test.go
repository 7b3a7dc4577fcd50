package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/models"
)

// mockMarketClient serves canned series and snapshots per ticker
type mockMarketClient struct {
	bars      map[string][]models.EODBar
	snapshots map[string]*models.Snapshot
	eodErr    map[string]error
	snapErr   map[string]error
}

func (m *mockMarketClient) GetEOD(ctx context.Context, ticker string, opts ...interfaces.EODOption) (*models.EODResponse, error) {
	if err := m.eodErr[ticker]; err != nil {
		return nil, err
	}
	return &models.EODResponse{Data: m.bars[ticker]}, nil
}

func (m *mockMarketClient) GetSnapshot(ctx context.Context, ticker string) (*models.Snapshot, error) {
	if err := m.snapErr[ticker]; err != nil {
		return nil, err
	}
	if s, ok := m.snapshots[ticker]; ok {
		return s, nil
	}
	return &models.Snapshot{Ticker: ticker, Name: ticker, Sector: models.SectorOther}, nil
}

// mockSelector records which tickers were queried for news
type mockSelector struct {
	mu      sync.Mutex
	queried []string
}

func (m *mockSelector) Select(ctx context.Context, ticker, companyName string) models.NewsSelection {
	m.mu.Lock()
	m.queried = append(m.queried, ticker)
	m.mu.Unlock()
	return models.NewsSelection{Marker: models.NewsMarkerNoCatalyst}
}

func fp(v float64) *float64 { return &v }

// bullishBars produces a series where ma50 > ma200 with room for price
// confirmation above the short average.
func bullishBars() []models.EODBar {
	bars := make([]models.EODBar, 250)
	base := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := 100.0
		if i < 50 {
			price = 120.0
		}
		bars[i] = models.EODBar{Date: base.AddDate(0, 0, -i), Close: price}
	}
	return bars
}

func flatSeries() []models.EODBar {
	bars := make([]models.EODBar, 250)
	base := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.EODBar{Date: base.AddDate(0, 0, -i), Close: 100}
	}
	return bars
}

func newTestService(market interfaces.MarketDataClient, selector interfaces.HeadlineSelector, pool []string) *Service {
	return NewService(market, selector, common.NewSilentLogger(), Options{
		DiscoveryPool: pool,
		PEThreshold:   20,
		ShortWindow:   50,
		LongWindow:    200,
		Workers:       3,
	})
}

func TestRunScan_WatchlistRecords(t *testing.T) {
	market := &mockMarketClient{
		bars: map[string][]models.EODBar{
			"AAA.AU": bullishBars(),
			"BBB.AU": flatSeries(),
		},
		snapshots: map[string]*models.Snapshot{
			"AAA.AU": {Ticker: "AAA.AU", Name: "Alpha Corp", Sector: "Tech", Price: 125, PercentChange: 1.5, PE: fp(12)},
			"BBB.AU": {Ticker: "BBB.AU", Name: "Beta Ltd", Sector: "Energy", Price: 100, PercentChange: -0.5, PE: fp(40)},
		},
	}
	selector := &mockSelector{}

	report, err := newTestService(market, selector, nil).RunScan(context.Background(), []string{"AAA.AU", "BBB.AU"})
	require.NoError(t, err)
	require.Len(t, report.Records, 2)

	byTicker := map[string]models.TickerRecord{}
	for _, r := range report.Records {
		byTicker[r.Ticker] = r
	}

	aaa := byTicker["AAA.AU"]
	assert.Equal(t, models.TrendBullish, aaa.Trend)
	assert.True(t, aaa.IsValue)
	assert.Equal(t, models.OriginWatchlist, aaa.Origin)
	assert.Equal(t, "Alpha Corp", aaa.Name)

	bbb := byTicker["BBB.AU"]
	assert.Equal(t, models.TrendConsolidating, bbb.Trend)
	assert.False(t, bbb.IsValue)

	// Every record carries a news selection
	assert.ElementsMatch(t, []string{"AAA.AU", "BBB.AU"}, selector.queried)
	assert.NotEmpty(t, report.ID)
}

func TestRunScan_DiscoveryFilter(t *testing.T) {
	market := &mockMarketClient{
		bars: map[string][]models.EODBar{
			"WATCH.AU": flatSeries(),
			"TRIG.AU":  bullishBars(),
			"VAL.AU":   flatSeries(),
			"DULL.AU":  flatSeries(),
		},
		snapshots: map[string]*models.Snapshot{
			"WATCH.AU": {Ticker: "WATCH.AU", Name: "Watched", Sector: "Tech", PercentChange: 1},
			"TRIG.AU":  {Ticker: "TRIG.AU", Name: "Trigger", Sector: "Tech", Price: 125, PE: fp(50)},
			"VAL.AU":   {Ticker: "VAL.AU", Name: "Value", Sector: "Energy", Price: 100, PE: fp(8)},
			"DULL.AU":  {Ticker: "DULL.AU", Name: "Dull", Sector: "Energy", Price: 100, PE: fp(50)},
		},
	}
	selector := &mockSelector{}

	// WATCH.AU appears in both the pool and the watchlist
	pool := []string{"WATCH.AU", "TRIG.AU", "VAL.AU", "DULL.AU"}
	report, err := newTestService(market, selector, pool).RunScan(context.Background(), []string{"WATCH.AU"})
	require.NoError(t, err)

	origins := map[string]models.Origin{}
	for _, r := range report.Records {
		origins[r.Ticker] = r.Origin
	}

	// Watchlist entry is the sole representation, tagged watchlist
	assert.Equal(t, models.OriginWatchlist, origins["WATCH.AU"])

	// Trend trigger and value trigger survive; no-trigger candidate dropped
	assert.Equal(t, models.OriginDiscovery, origins["TRIG.AU"])
	assert.Equal(t, models.OriginDiscovery, origins["VAL.AU"])
	assert.NotContains(t, origins, "DULL.AU")
	assert.Len(t, report.Records, 3)

	// Dropped candidates never reach the news selector
	assert.NotContains(t, selector.queried, "DULL.AU")
}

func TestRunScan_WatchlistCaseInsensitiveOverlap(t *testing.T) {
	market := &mockMarketClient{
		bars: map[string][]models.EODBar{
			"abc.au": flatSeries(),
		},
		snapshots: map[string]*models.Snapshot{
			"abc.au": {Ticker: "abc.au", Name: "ABC", Sector: "Tech"},
		},
	}

	report, err := newTestService(market, &mockSelector{}, []string{"ABC.AU"}).RunScan(context.Background(), []string{"abc.au"})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, models.OriginWatchlist, report.Records[0].Origin)
}

func TestRunScan_FailuresIsolated(t *testing.T) {
	market := &mockMarketClient{
		bars: map[string][]models.EODBar{
			"GOOD.AU":  flatSeries(),
			"EMPTY.AU": {},
			"SNAP.AU":  flatSeries(),
		},
		snapshots: map[string]*models.Snapshot{
			"GOOD.AU": {Ticker: "GOOD.AU", Name: "Good", Sector: "Tech", PercentChange: 2},
		},
		eodErr: map[string]error{
			"DOWN.AU": models.AdapterUnavailable("eod", errors.New("connection refused")),
		},
		snapErr: map[string]error{
			"SNAP.AU": models.MalformedResponse("snapshot", errors.New("unexpected shape")),
		},
	}

	watchlist := []string{"GOOD.AU", "DOWN.AU", "EMPTY.AU", "SNAP.AU"}
	report, err := newTestService(market, &mockSelector{}, nil).RunScan(context.Background(), watchlist)
	require.NoError(t, err, "per-ticker failures must not abort the run")

	require.Len(t, report.Records, 1)
	assert.Equal(t, "GOOD.AU", report.Records[0].Ticker)
}

func TestRunScan_EmptyInputs(t *testing.T) {
	report, err := newTestService(&mockMarketClient{}, &mockSelector{}, nil).RunScan(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.Records)
	assert.Empty(t, report.Leaderboard)
	assert.Equal(t, models.RegimeNeutral, report.Sentiment.Regime)
	assert.Zero(t, report.Sentiment.Ratio)
}

func TestRunScan_SectorFallback(t *testing.T) {
	market := &mockMarketClient{
		bars: map[string][]models.EODBar{
			"NOSEC.AU": flatSeries(),
		},
		snapshots: map[string]*models.Snapshot{
			"NOSEC.AU": {Ticker: "NOSEC.AU", Name: "", Sector: ""},
		},
	}

	report, err := newTestService(market, &mockSelector{}, nil).RunScan(context.Background(), []string{"NOSEC.AU"})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)

	assert.Equal(t, models.SectorOther, report.Records[0].Sector)
	assert.Equal(t, "NOSEC.AU", report.Records[0].Name, "name falls back to ticker")
}
