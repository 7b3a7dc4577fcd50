// Package app wires clients and services into the runnable scanner
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"marketintel/internal/clients/eodhd"
	"marketintel/internal/clients/newsapi"
	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/services/news"
	"marketintel/internal/services/report"
	"marketintel/internal/services/scan"
)

// App holds all initialized clients and services for a scanner process.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	MarketClient  interfaces.MarketDataClient
	NewsClient    interfaces.NewsSearchClient
	Selector      interfaces.HeadlineSelector
	ScanService   interfaces.ScanService
	ReportService interfaces.ReportService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes all clients and services.
// configPath may be empty, in which case the default resolution is used:
// MARKETINTEL_CONFIG, then marketintel.toml beside the binary, then
// config/marketintel.toml for development.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("MARKETINTEL_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "marketintel.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/marketintel.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	if config.Clients.EODHD.APIKey == "" {
		logger.Warn().Msg("EODHD API key not configured - price data will be unavailable")
	}
	if config.Clients.NewsAPI.APIKey == "" {
		logger.Warn().Msg("NewsAPI key not configured - headlines will be unavailable")
	}

	marketClient := eodhd.NewClient(config.Clients.EODHD.APIKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		eodhd.WithLogger(logger),
	)

	newsClient := newsapi.NewClient(config.Clients.NewsAPI.APIKey,
		newsapi.WithBaseURL(config.Clients.NewsAPI.BaseURL),
		newsapi.WithRateLimit(config.Clients.NewsAPI.RateLimit),
		newsapi.WithTimeout(config.Clients.NewsAPI.GetTimeout()),
		newsapi.WithLogger(logger),
	)

	selector := news.NewSelector(newsClient, logger,
		news.WithRecencyDays(config.News.RecencyDays),
		news.WithStrictTitle(config.News.StrictTitle),
		news.WithLanguage(config.News.Language),
	)

	scanService := scan.NewService(marketClient, selector, logger, scan.Options{
		DiscoveryPool: config.Scan.DiscoveryPool,
		PEThreshold:   config.Scan.PEThreshold,
		LookbackYears: config.Scan.LookbackYears,
		ShortWindow:   config.Scan.ShortWindow,
		LongWindow:    config.Scan.LongWindow,
		Workers:       config.Scan.Workers,
	})

	reportService := report.NewService(config.Report, logger)

	return &App{
		Config:        config,
		Logger:        logger,
		MarketClient:  marketClient,
		NewsClient:    newsClient,
		Selector:      selector,
		ScanService:   scanService,
		ReportService: reportService,
		StartupTime:   time.Now(),
	}, nil
}

// RunOnce executes a single scan run under the configured deadline:
// load watchlist, run the pipeline, render, deliver.
func (a *App) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, a.Config.Scan.GetRunTimeout())
	defer cancel()

	watchlist, err := common.LoadWatchlist(a.Config.Scan.WatchlistPath)
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	scanReport, err := a.ScanService.RunScan(runCtx, watchlist)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if _, err := a.ReportService.Render(runCtx, scanReport); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if err := a.ReportService.Deliver(runCtx, scanReport); err != nil {
		// Delivery failure leaves the rendered file on disk
		a.Logger.Error().Err(err).Msg("Report delivery failed")
	}

	return nil
}
