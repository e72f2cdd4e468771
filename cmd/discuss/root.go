package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/davidleitw/discuss/internal/config"
	"github.com/davidleitw/discuss/internal/discussion"
)

var (
	envFile  string
	courseID string

	cfg    *config.Config
	client discussion.Client
)

var rootCmd = &cobra.Command{
	Use:           "discuss",
	Short:         "Command line client for course discussions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if envFile != "" {
			cfg, err = config.Load(envFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		cfg.SetupLogging()
		if courseID == "" {
			courseID = cfg.CourseID
		}

		if cmd.Annotations["offline"] == "true" {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		client = cfg.NewClient()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default .env)")
	rootCmd.PersistentFlags().StringVar(&courseID, "course", "", "course id (default $DISCUSSION_COURSE_ID)")
}

func requireCourse() error {
	if courseID == "" {
		return errCourseRequired
	}
	return nil
}

func now() time.Time {
	return time.Now()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("discuss failed")
		os.Exit(1)
	}
}
