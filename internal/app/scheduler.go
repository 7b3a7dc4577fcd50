package app

import (
	"context"

	"github.com/robfig/cron/v3"
)

// RunScheduled runs scans on the configured cron schedule until the
// context is cancelled. A run still in progress when the next tick
// fires causes that tick to be skipped.
func (a *App) RunScheduled(ctx context.Context, spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(spec, func() {
		if err := a.RunOnce(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("Scheduled scan failed")
		}
	})
	if err != nil {
		return err
	}

	a.Logger.Info().Str("cron", spec).Msg("Scheduler started")
	c.Start()

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()

	a.Logger.Info().Msg("Scheduler stopped")
	return nil
}
