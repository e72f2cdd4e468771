package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/davidleitw/discuss/internal/db"
	"github.com/davidleitw/discuss/internal/discussion"
)

const (
	EnvBaseURL         = "DISCUSSION_BASE_URL"
	EnvAccessToken     = "DISCUSSION_ACCESS_TOKEN"
	EnvCourseID        = "DISCUSSION_COURSE_ID"
	EnvDbPath          = "DISCUSSION_DB_PATH"
	EnvTimeout         = "DISCUSSION_TIMEOUT"
	EnvRemoteConfigURL = "REMOTE_CONFIG_URL"
	EnvLogLevel        = "LOG_LEVEL"
	EnvWatchThreads    = "WATCH_THREADS"
	EnvMetricsAddr     = "METRICS_ADDR"
)

type Config struct {
	BaseURL         string
	AccessToken     string
	CourseID        string
	DbPath          string
	Timeout         time.Duration
	RemoteConfigURL string
	LogLevel        logrus.Level
	WatchThreads    []string
	MetricsAddr     string
}

// Load reads .env files (when present) into the environment and builds a
// Config from it. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Error("godotenv.Load failed")
		return nil, err
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		BaseURL:         strings.TrimRight(os.Getenv(EnvBaseURL), "/"),
		AccessToken:     os.Getenv(EnvAccessToken),
		CourseID:        os.Getenv(EnvCourseID),
		DbPath:          os.Getenv(EnvDbPath),
		Timeout:         discussion.DefaultTimeout,
		RemoteConfigURL: os.Getenv(EnvRemoteConfigURL),
		LogLevel:        logrus.InfoLevel,
		MetricsAddr:     os.Getenv(EnvMetricsAddr),
	}
	if cfg.DbPath == "" {
		cfg.DbPath = db.DefaultDbPath
	}

	if raw := os.Getenv(EnvTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			logrus.WithError(err).Errorf("invalid %s", EnvTimeout)
			return nil, err
		}
		cfg.Timeout = timeout
	}

	if raw := os.Getenv(EnvLogLevel); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			logrus.WithError(err).Errorf("invalid %s", EnvLogLevel)
			return nil, err
		}
		cfg.LogLevel = level
	}

	for _, id := range strings.Split(os.Getenv(EnvWatchThreads), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.WatchThreads = append(cfg.WatchThreads, id)
		}
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New(EnvBaseURL + " is not set")
	}
	if c.AccessToken == "" {
		return errors.New(EnvAccessToken + " is not set")
	}
	return nil
}

// SetupLogging applies the logger settings shared by every binary.
func (c *Config) SetupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logrus.SetReportCaller(true)
	logrus.SetLevel(c.LogLevel)
}

func (c *Config) NewClient() discussion.Client {
	return discussion.NewClient(c.BaseURL, c.AccessToken,
		discussion.WithTimeout(c.Timeout),
		discussion.WithUserAgent("discuss-cli"),
	)
}
