// Package aggregate fans a search out to all requested sources in parallel
// and merges their listings into one deduplicated result set.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avetisov/jobscout/internal/model"
	"github.com/avetisov/jobscout/internal/normalize"
	"github.com/avetisov/jobscout/internal/ratelimit"
)

// Runner executes one source's full fetch (fallback chain + pagination).
type Runner interface {
	Run(ctx context.Context, params model.SearchParams) ([]model.RawListing, error)
}

// DetailRunner fetches the full record for one listing of a source.
type DetailRunner interface {
	Details(ctx context.Context, externalID string) (model.RawListing, error)
}

// ChainFunc resolves a source name to its runner. Unknown sources return
// false and surface as an error string, never as a Go error.
type ChainFunc func(source string) (Runner, bool)

// DetailFunc resolves a source name to its detail runner.
type DetailFunc func(source string) (DetailRunner, bool)

// Coordinator owns the fan-out. One goroutine per requested source with
// all-settle semantics: a failing source contributes an error string and
// nothing else; it never cancels or delays its siblings.
type Coordinator struct {
	chainFor      ChainFunc
	detailFor     DetailFunc
	defaultSource string
	limiter       *ratelimit.SourceLimiter
	logger        *slog.Logger
	now           func() time.Time
}

// New creates a coordinator. limiter may be nil to disable source-level
// rate limiting (tests do this).
func New(chainFor ChainFunc, detailFor DetailFunc, defaultSource string, limiter *ratelimit.SourceLimiter, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		chainFor:      chainFor,
		detailFor:     detailFor,
		defaultSource: defaultSource,
		limiter:       limiter,
		logger:        logger,
		now:           time.Now,
	}
}

type sourceResult struct {
	source   string
	listings []model.RawListing
	err      error
}

// Search runs the aggregation. It always returns a usable result: total
// failure of every source yields an empty Jobs slice with populated Errors,
// never an error, so callers can render "no results, n sources failed".
func (c *Coordinator) Search(ctx context.Context, params model.SearchParams, sources []string) model.AggregationResult {
	if len(sources) == 0 {
		sources = []string{c.defaultSource}
	}

	results := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup
	for _, source := range sources {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()
			results <- c.runSource(ctx, source, params)
		}(source)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var raws []model.RawListing
	errs := []string{}
	for r := range results {
		if r.err != nil {
			c.logger.Warn("source failed", "source", r.source, "error", r.err)
			errs = append(errs, r.err.Error())
			continue
		}
		raws = append(raws, r.listings...)
	}

	jobs := dedupe(normalize.All(raws, c.now().UTC()))
	if params.Limit > 0 && len(jobs) > params.Limit {
		jobs = jobs[:params.Limit]
	}

	c.logger.Info("aggregation complete",
		"query", params.Query,
		"sources", len(sources),
		"jobs", len(jobs),
		"failed_sources", len(errs),
	)
	return model.AggregationResult{Jobs: jobs, Errors: errs}
}

func (c *Coordinator) runSource(ctx context.Context, source string, params model.SearchParams) sourceResult {
	runner, ok := c.chainFor(source)
	if !ok {
		return sourceResult{source: source, err: fmt.Errorf("unknown source %q", source)}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, source); err != nil {
			return sourceResult{source: source, err: err}
		}
	}

	listings, err := runner.Run(ctx, params)
	return sourceResult{source: source, listings: listings, err: err}
}

// Details fetches the full record for one listing, following the same retry
// policy as search fetches but without pagination.
func (c *Coordinator) Details(ctx context.Context, platform, externalID string) (model.Job, error) {
	runner, ok := c.detailFor(platform)
	if !ok {
		return model.Job{}, fmt.Errorf("unknown source %q", platform)
	}

	raw, err := runner.Details(ctx, externalID)
	if err != nil {
		return model.Job{}, err
	}

	job, ok := normalize.Listing(raw, c.now().UTC())
	if !ok {
		return model.Job{}, fmt.Errorf("source %s: listing %s failed validation", platform, externalID)
	}
	return job, nil
}

// dedupe drops entries sharing a (platform, externalID) key. First seen wins;
// source-returned order is preserved.
func dedupe(jobs []model.Job) []model.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		key := j.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, j)
	}
	return out
}
