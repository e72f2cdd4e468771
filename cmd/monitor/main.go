package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/davidleitw/discuss/internal/config"
	"github.com/davidleitw/discuss/internal/db"
	"github.com/davidleitw/discuss/internal/metrics"
	"github.com/davidleitw/discuss/internal/monitor"
	"github.com/davidleitw/discuss/internal/rule"
)

const (
	pokeInterval = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error loading config: %v", err)
	}
	cfg.SetupLogging()

	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}
	if len(cfg.WatchThreads) == 0 {
		logrus.Fatalf("%s is empty, nothing to watch", config.EnvWatchThreads)
	}

	store, err := db.Open(cfg.DbPath)
	if err != nil {
		logrus.WithError(err).Fatal("db.Open failed")
	}
	defer store.Close()

	rules := make([]*rule.WatchRule, 0, len(cfg.WatchThreads))
	for _, threadID := range cfg.WatchThreads {
		r, err := rule.NewWatchRule(
			rule.ThreadId(threadID),
			rule.PokeInterval(pokeInterval),
			rule.SyncLocalDb(true),
			rule.DefaultNewResponseCallback(),
		)
		if err != nil {
			logrus.WithError(err).Error("rule.NewWatchRule failed")
			return
		}
		rules = append(rules, r)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				logrus.WithError(err).Error("metrics.Serve failed")
			}
		}()
	}

	if err := monitor.NewMonitor(cfg.NewClient(), store, rules...).Run(ctx); err != nil {
		logrus.WithError(err).Error("monitor.Run failed")
	}
}
