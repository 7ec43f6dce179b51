package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

// daily_checkup runs one sweep and exits. Meant for cron:
//
//	0 0 * * * /usr/local/bin/daily_checkup
func main() {
	date := flag.String("date", "", "sweep as if today were YYYY-MM-DD")
	timeout := flag.Duration("timeout", 5*time.Minute, "abort the sweep after this long")
	flag.Parse()

	cfg := config.Load()

	clock, err := domain.LoadClock(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid APP_TIMEZONE", "error", err)
	}
	policy, err := domain.PolicyByName(cfg.TransitionPolicy)
	if err != nil {
		logger.Fatal("invalid TRANSITION_POLICY", "error", err)
	}

	stores, err := repository.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer stores.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sweep := service.NewSweepService(stores.Tasks, policy, clock)
	var res service.SweepResult
	if *date != "" {
		day, err := domain.ParseDate(*date)
		if err != nil {
			logger.Fatal("invalid -date", "error", err)
		}
		res = sweep.RunFor(ctx, day)
	} else {
		res = sweep.Run(ctx)
	}

	fmt.Printf("date=%s eligible=%d advanced=%d failed=%d ok=%t\n",
		res.Date, res.Scanned, res.Advanced, res.Failed, res.OK())
	if !res.OK() {
		logger.Error("sweep finished with errors", "error", res.Err)
		stores.Close()
		os.Exit(1)
	}
}
