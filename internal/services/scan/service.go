// Package scan orchestrates the signal aggregation pipeline
package scan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/models"
	"marketintel/internal/signals"
)

// Compile-time interface check
var _ interfaces.ScanService = (*Service)(nil)

// Options holds the pipeline tuning parameters
type Options struct {
	DiscoveryPool []string
	PEThreshold   float64
	LookbackYears int
	ShortWindow   int
	LongWindow    int
	Workers       int
}

// Service implements ScanService
type Service struct {
	market   interfaces.MarketDataClient
	selector interfaces.HeadlineSelector
	logger   *common.Logger
	opts     Options
	now      func() time.Time
}

// NewService creates a new scan service
func NewService(market interfaces.MarketDataClient, selector interfaces.HeadlineSelector, logger *common.Logger, opts Options) *Service {
	if opts.PEThreshold <= 0 {
		opts.PEThreshold = 20
	}
	if opts.LookbackYears <= 0 {
		opts.LookbackYears = 1
	}
	if opts.ShortWindow <= 0 {
		opts.ShortWindow = 50
	}
	if opts.LongWindow <= opts.ShortWindow {
		opts.LongWindow = 200
	}
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	return &Service{
		market:   market,
		selector: selector,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// RunScan evaluates the watchlist and discovery pool, filters discovery
// candidates down to signal triggers, and aggregates the combined records
// into the sector leaderboard and breadth sentiment.
func (s *Service) RunScan(ctx context.Context, watchlist []string) (*models.ScanReport, error) {
	start := s.now()

	watched := make(map[string]bool, len(watchlist))
	for _, t := range watchlist {
		watched[strings.ToUpper(t)] = true
	}

	type job struct {
		ticker string
		origin models.Origin
	}

	jobs := make([]job, 0, len(watchlist)+len(s.opts.DiscoveryPool))
	for _, t := range watchlist {
		jobs = append(jobs, job{ticker: t, origin: models.OriginWatchlist})
	}
	for _, t := range s.opts.DiscoveryPool {
		// Watchlist entries are the sole representation of their ticker
		if watched[strings.ToUpper(t)] {
			continue
		}
		jobs = append(jobs, job{ticker: t, origin: models.OriginDiscovery})
	}

	// Fan out per-ticker evaluation through a bounded semaphore. Each
	// worker writes only its own slot; aggregation waits for all slots.
	semaphore := make(chan struct{}, s.opts.Workers)
	done := make(chan struct{}, len(jobs))
	results := make([]*models.TickerRecord, len(jobs))

	for i, j := range jobs {
		go func(idx int, ticker string, origin models.Origin) {
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release
			defer func() { done <- struct{}{} }()

			record := s.evaluateTicker(ctx, ticker, origin)
			if record == nil {
				return
			}

			// Discovery filter: retain only signal triggers
			if origin == models.OriginDiscovery && record.Trend != models.TrendBullish && !record.IsValue {
				s.logger.Debug().Str("ticker", ticker).Msg("Discovery candidate dropped, no trigger")
				return
			}

			record.News = s.selector.Select(ctx, record.Ticker, record.Name)
			results[idx] = record
		}(i, j.ticker, j.origin)
	}

	for range jobs {
		<-done
	}

	records := make([]models.TickerRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	report := &models.ScanReport{
		ID:          uuid.NewString(),
		GeneratedAt: s.now(),
		Records:     records,
		Leaderboard: BuildLeaderboard(records),
		Sentiment:   ClassifySentiment(records),
	}

	s.logger.Info().
		Int("watchlist", len(watchlist)).
		Int("discovery_pool", len(s.opts.DiscoveryPool)).
		Int("records", len(records)).
		Str("regime", string(report.Sentiment.Regime)).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Scan complete")

	return report, nil
}

// evaluateTicker builds the signal portion of a ticker record. Any
// failure is absorbed here: the ticker yields no record and the run
// continues.
func (s *Service) evaluateTicker(ctx context.Context, ticker string, origin models.Origin) *models.TickerRecord {
	now := s.now()

	eod, err := s.market.GetEOD(ctx, ticker, interfaces.WithDateRange(now.AddDate(-s.opts.LookbackYears, 0, 0), now))
	if err != nil {
		s.logTickerFailure(ticker, "price history", err)
		return nil
	}
	if len(eod.Data) == 0 {
		s.logger.Warn().Str("ticker", ticker).Msg("Empty price series, skipping")
		return nil
	}

	snapshot, err := s.market.GetSnapshot(ctx, ticker)
	if err != nil {
		s.logTickerFailure(ticker, "snapshot", err)
		return nil
	}

	name := snapshot.Name
	if name == "" {
		name = ticker
	}
	sector := snapshot.Sector
	if sector == "" {
		sector = models.SectorOther
	}

	return &models.TickerRecord{
		Ticker:        ticker,
		Name:          name,
		Sector:        sector,
		Price:         snapshot.Price,
		PercentChange: snapshot.PercentChange,
		PERatio:       snapshot.PE,
		EPSTrailing:   snapshot.EPS,
		Trend:         signals.ClassifyTrend(eod.Data, snapshot.Price, s.opts.ShortWindow, s.opts.LongWindow),
		IsValue:       signals.IsValue(snapshot.PE, s.opts.PEThreshold),
		Origin:        origin,
	}
}

func (s *Service) logTickerFailure(ticker, what string, err error) {
	event := s.logger.Warn().Str("ticker", ticker).Err(err)
	switch {
	case errors.Is(err, models.ErrAdapterUnavailable):
		event.Msg("Provider unavailable fetching " + what + ", skipping ticker")
	case errors.Is(err, models.ErrMalformedResponse):
		event.Msg("Malformed " + what + " response, skipping ticker")
	case errors.Is(err, models.ErrNoData):
		event.Msg("No " + what + " for ticker, skipping")
	default:
		event.Msg("Failed to fetch " + what + ", skipping ticker")
	}
}
