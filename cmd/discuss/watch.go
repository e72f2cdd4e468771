package main

import (
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/davidleitw/discuss/internal/db"
	"github.com/davidleitw/discuss/internal/discussion"
	"github.com/davidleitw/discuss/internal/metrics"
	"github.com/davidleitw/discuss/internal/monitor"
	"github.com/davidleitw/discuss/internal/render"
	"github.com/davidleitw/discuss/internal/rule"
)

var watchCmd = &cobra.Command{
	Use:   "watch <thread-id>...",
	Short: "Poll threads and print new responses as they arrive",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

var (
	watchInterval   time.Duration
	watchMaxFailure int
	watchSync       bool
	watchMetrics    string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "poll interval")
	watchCmd.Flags().IntVar(&watchMaxFailure, "max-failure", 20, "consecutive failed polls before a thread is dropped")
	watchCmd.Flags().BoolVar(&watchSync, "sync", false, "remember seen responses in the local database")
	watchCmd.Flags().StringVar(&watchMetrics, "metrics-addr", "", "serve prometheus metrics on this address (default $METRICS_ADDR)")
}

func printNewResponse(c *discussion.Comment) {
	color.Cyan("New response on thread %s", c.ThreadID)
	render.Responses(color.Output, []discussion.Comment{*c}, now())
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var store db.DiscussionDB
	if watchSync {
		var err error
		if store, err = db.Open(cfg.DbPath); err != nil {
			return err
		}
		defer store.Close()
	}

	rules := make([]*rule.WatchRule, 0, len(args))
	for _, threadID := range args {
		r, err := rule.NewWatchRule(
			rule.ThreadId(threadID),
			rule.PokeInterval(watchInterval),
			rule.MaxFailure(watchMaxFailure),
			rule.SyncLocalDb(watchSync),
			rule.NewResponseCallback(printNewResponse),
		)
		if err != nil {
			return err
		}
		rules = append(rules, r)
	}

	addr := watchMetrics
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				logrus.WithError(err).Error("metrics.Serve failed")
			}
		}()
	}

	err := monitor.NewMonitor(client, store, rules...).Run(ctx)
	if errors.Is(err, monitor.ErrAllRulesStopped) {
		logrus.WithError(err).Error("every watched thread failed too often")
	}
	return err
}
