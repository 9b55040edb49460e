package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avetisov/jobscout/internal/filter"
	"github.com/avetisov/jobscout/internal/model"
	"github.com/avetisov/jobscout/internal/store"
	"github.com/avetisov/jobscout/internal/watch"
)

var watchDryRun bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the configured search on an interval and notify on new listings",
	Long: `Watch repeats the saved search from the config file's watch section,
filters the results, and notifies about listings not seen in earlier cycles.
Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Watch.Query == "" {
			return fmt.Errorf("watch.query is not set in the config file")
		}

		coordinator, _ := buildEngine(cfg, logger)

		var seenStore model.SeenStore
		if watchDryRun {
			logger.Info("dry run: new listings are logged, nothing is marked seen")
			seenStore = store.NewNopStore()
		} else {
			db, err := store.NewSQLiteStore(cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer db.Close()
			seenStore = db
		}

		httpClient := &http.Client{Timeout: 30 * time.Second}
		n := setupNotifier(cfg, httpClient, logger)

		params := model.SearchParams{
			Query:    cfg.Watch.Query,
			Location: cfg.Watch.Location,
			Remote:   cfg.Watch.Remote,
		}
		jobFilter := filter.NewKeywordFilter(
			cfg.Watch.TitleKeywords,
			cfg.Watch.TitleExcludeKeywords,
			cfg.Watch.Locations,
			cfg.Watch.ExcludeLocations,
		)

		runner := watch.NewRunner(
			coordinator,
			params,
			cfg.Watch.Sources,
			jobFilter,
			seenStore,
			n,
			cfg.Watch.Interval,
			cfg.Watch.SeenMaxAge,
			logger,
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runner.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "log new listings without recording them as seen")
	rootCmd.AddCommand(watchCmd)
}
