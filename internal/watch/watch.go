// Package watch re-runs a saved search on an interval and notifies on new
// listings: aggregate → filter → dedup against the seen-set → notify → mark
// seen.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avetisov/jobscout/internal/model"
)

// Searcher is the aggregation entry point the runner drives.
type Searcher interface {
	Search(ctx context.Context, params model.SearchParams, sources []string) model.AggregationResult
}

// Runner owns the watch loop for one saved search.
type Runner struct {
	searcher   Searcher
	params     model.SearchParams
	sources    []string
	filter     model.JobFilter
	store      model.SeenStore
	notifier   model.Notifier
	interval   time.Duration
	seenMaxAge time.Duration
	logger     *slog.Logger
}

// NewRunner creates a watch runner wired with all its dependencies.
func NewRunner(
	searcher Searcher,
	params model.SearchParams,
	sources []string,
	filter model.JobFilter,
	store model.SeenStore,
	notifier model.Notifier,
	interval time.Duration,
	seenMaxAge time.Duration,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		searcher:   searcher,
		params:     params,
		sources:    sources,
		filter:     filter,
		store:      store,
		notifier:   notifier,
		interval:   interval,
		seenMaxAge: seenMaxAge,
		logger:     logger,
	}
}

// Run starts the watch loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("starting watch",
		"interval", r.interval.String(),
		"query", r.params.Query,
		"sources", r.sources,
	)

	if err := r.Cycle(ctx); err != nil {
		r.logger.Error("watch cycle failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down watch")
			return nil
		case <-time.After(r.interval):
			if err := r.Cycle(ctx); err != nil {
				r.logger.Error("watch cycle failed", "error", err)
			}
		}
	}
}

// Cycle runs one watch pass. Source-level failures inside the aggregation
// are already contained as error strings and only logged here; a cycle fails
// only on store or notifier errors.
func (r *Runner) Cycle(ctx context.Context) error {
	result := r.searcher.Search(ctx, r.params, r.sources)
	for _, e := range result.Errors {
		r.logger.Warn("source unavailable during watch cycle", "error", e)
	}

	var matched []model.Job
	for _, job := range result.Jobs {
		if r.filter == nil || r.filter.Match(job) {
			matched = append(matched, job)
		}
	}

	var newJobs []model.Job
	for _, job := range matched {
		seen, err := r.store.HasSeen(job.Key())
		if err != nil {
			return fmt.Errorf("watch cycle: checking seen status: %w", err)
		}
		if !seen {
			newJobs = append(newJobs, job)
		}
	}

	if len(newJobs) > 0 {
		if err := r.notifier.Notify(newJobs); err != nil {
			return fmt.Errorf("watch cycle: notifying: %w", err)
		}
	}

	for _, job := range newJobs {
		if err := r.store.MarkSeen(job.Key()); err != nil {
			return fmt.Errorf("watch cycle: marking seen: %w", err)
		}
	}

	if r.seenMaxAge > 0 {
		if err := r.store.Cleanup(r.seenMaxAge); err != nil {
			r.logger.Warn("seen-set cleanup failed", "error", err)
		}
	}

	r.logger.Info("watch cycle complete",
		"fetched", len(result.Jobs),
		"matched", len(matched),
		"new", len(newJobs),
		"failed_sources", len(result.Errors),
	)
	return nil
}
