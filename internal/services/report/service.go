// Package report renders and delivers scan reports
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/models"
)

// Compile-time interface check
var _ interfaces.ReportService = (*Service)(nil)

// Service implements ReportService
type Service struct {
	cfg    common.ReportConfig
	mailer *Mailer
	logger *common.Logger
}

// NewService creates a new report service. Email delivery is enabled only
// when SMTP configuration is complete.
func NewService(cfg common.ReportConfig, logger *common.Logger) *Service {
	s := &Service{
		cfg:    cfg,
		logger: logger,
	}
	if cfg.SMTP.Enabled() {
		s.mailer = NewMailer(cfg.SMTP, logger)
	}
	return s
}

// Render writes the HTML report and sector chart into the output
// directory and returns the HTML file path.
func (s *Service) Render(ctx context.Context, report *models.ScanReport) (string, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	stamp := report.GeneratedAt.Format("20060102-150405")
	htmlPath := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("scan-%s.html", stamp))

	body := FormatHTML(report, s.cfg.Title)
	if err := os.WriteFile(htmlPath, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if chartPNG, err := RenderSectorChart(report.Leaderboard); err == nil {
		chartPath := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("sectors-%s.png", stamp))
		if err := os.WriteFile(chartPath, chartPNG, 0o644); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to write sector chart")
		}
	} else {
		s.logger.Debug().Err(err).Msg("Sector chart skipped")
	}

	s.logger.Info().Str("path", htmlPath).Int("records", len(report.Records)).Msg("Report rendered")
	return htmlPath, nil
}

// Deliver emails the rendered report. Without SMTP configuration this is
// a logged no-op so cron runs still produce file output.
func (s *Service) Deliver(ctx context.Context, report *models.ScanReport) error {
	if s.mailer == nil {
		s.logger.Info().Msg("SMTP not configured, skipping email delivery")
		return nil
	}

	subject := fmt.Sprintf("%s: %s", s.cfg.Title, report.GeneratedAt.Format("02 Jan 2006"))
	body := FormatHTML(report, s.cfg.Title)

	chartPNG, err := RenderSectorChart(report.Leaderboard)
	if err != nil {
		chartPNG = nil
	}

	return s.mailer.Send(subject, body, chartPNG)
}
