package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avetisov/jobscout/internal/adapter"
	"github.com/avetisov/jobscout/internal/aggregate"
	"github.com/avetisov/jobscout/internal/browser"
	"github.com/avetisov/jobscout/internal/config"
	"github.com/avetisov/jobscout/internal/model"
	"github.com/avetisov/jobscout/internal/notifier"
	"github.com/avetisov/jobscout/internal/ratelimit"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Aggregate job listings from external sources",
	Long:  "JobScout queries several job sources in parallel (feed, API, browser scrape) and merges their listings into one deduplicated result set.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./jobscout.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it. A missing default file
// falls back to the built-in configuration; an explicitly named file must
// exist. Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./jobscout.yaml".
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "jobscout.yaml"
		}
	}

	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildEngine wires the registry and coordinator from configuration.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*aggregate.Coordinator, *adapter.Registry) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	chrome := browser.NewChrome(cfg.Browser.Headless, cfg.Browser.UserAgent)

	registry := adapter.NewRegistry(cfg, adapter.Deps{
		Client:  httpClient,
		Browser: chrome,
		Logger:  logger,
	})

	limiter := ratelimit.NewSourceLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.SourceOverrides)

	chainFor := func(source string) (aggregate.Runner, bool) {
		chain, ok := registry.Chain(source)
		if !ok {
			return nil, false
		}
		return chain, true
	}
	detailFor := func(source string) (aggregate.DetailRunner, bool) {
		chain, ok := registry.Chain(source)
		if !ok {
			return nil, false
		}
		return chain, true
	}

	coordinator := aggregate.New(chainFor, detailFor, registry.Default(), limiter, logger)
	return coordinator, registry
}
