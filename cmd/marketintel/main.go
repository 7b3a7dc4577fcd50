package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"marketintel/internal/app"
	"marketintel/internal/common"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default: MARKETINTEL_CONFIG or marketintel.toml)")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("marketintel %s (build %s, commit %s)\n", common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if spec := a.Config.Schedule.Cron; spec != "" {
		if err := a.RunScheduled(ctx, spec); err != nil {
			a.Logger.Fatal().Err(err).Msg("Scheduler failed")
		}
		return
	}

	if err := a.RunOnce(ctx); err != nil {
		a.Logger.Fatal().Err(err).Msg("Scan run failed")
	}
}
