package interfaces

import (
	"context"

	"marketintel/internal/models"
)

// ScanService runs the signal aggregation pipeline
type ScanService interface {
	// RunScan evaluates the watchlist and discovery pool and returns the
	// aggregated report. Per-ticker failures degrade the report rather
	// than aborting the run.
	RunScan(ctx context.Context, watchlist []string) (*models.ScanReport, error)
}

// HeadlineSelector picks one representative headline per ticker
type HeadlineSelector interface {
	// Select runs the staged relevance search. It never returns an error;
	// failures are encoded as a neutral marker in the selection.
	Select(ctx context.Context, ticker, companyName string) models.NewsSelection
}

// ReportService renders and delivers a scan report
type ReportService interface {
	// Render writes the HTML report and sector chart to the output
	// directory and returns the HTML file path.
	Render(ctx context.Context, report *models.ScanReport) (string, error)

	// Deliver emails the rendered report. A nil error with no SMTP
	// configuration means delivery was skipped.
	Deliver(ctx context.Context, report *models.ScanReport) error
}
