// Package fallback tries a source's adapters in priority order until one
// yields results or all are exhausted.
package fallback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avetisov/jobscout/internal/model"
	"github.com/avetisov/jobscout/internal/paginate"
	"github.com/avetisov/jobscout/internal/retry"
)

// State tracks chain progress. Exposed so exhaustion is independently
// testable rather than inferred from error strings.
type State int

const (
	StatePending State = iota
	StateTryNext
	StateSucceeded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateTryNext:
		return "try-next"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Adapter pairs a fetch strategy with the retry policy governing its attempts.
type Adapter struct {
	Name    string // e.g. "linkedin/feed"
	Fetcher model.PageFetcher
	Policy  retry.Policy
}

// Chain is the ordered adapter sequence for one source. Adapters are
// attempted sequentially, never raced: most sources rate-limit aggressively
// and parallel requests to the same source raise the failure probability.
type Chain struct {
	Source     string
	Adapters   []Adapter
	Pagination paginate.Config
	Logger     *slog.Logger

	state State
}

// State returns the chain's progress after the last Run call.
func (c *Chain) State() State {
	return c.state
}

// Run walks the chain: each adapter performs a full paginated fetch under its
// retry policy; the chain advances on terminal failure or an empty result.
// On exhaustion with at least one failure it returns an error describing the
// last failure; exhaustion with only empty results is a legitimate empty
// result, not an error.
func (c *Chain) Run(ctx context.Context, params model.SearchParams) ([]model.RawListing, error) {
	c.state = StatePending
	var lastErr error

	for _, a := range c.Adapters {
		if ctx.Err() != nil {
			c.state = StateExhausted
			return nil, fmt.Errorf("source %s: %w", c.Source, ctx.Err())
		}
		c.state = StateTryNext

		listings, err := c.runAdapter(ctx, a, params)
		if err != nil {
			c.Logger.Warn("adapter failed, advancing chain",
				"source", c.Source,
				"adapter", a.Name,
				"error", err,
			)
			lastErr = err
			continue
		}

		if len(listings) == 0 {
			c.Logger.Debug("adapter returned no listings, advancing chain",
				"source", c.Source,
				"adapter", a.Name,
			)
			continue
		}

		c.state = StateSucceeded
		c.Logger.Info("source fetch complete",
			"source", c.Source,
			"adapter", a.Name,
			"listings", len(listings),
		)
		return listings, nil
	}

	c.state = StateExhausted
	if lastErr != nil {
		return nil, fmt.Errorf("source %s: all adapters exhausted: %w", c.Source, lastErr)
	}
	return nil, nil
}

// runAdapter runs the paginated fetch for one adapter, wrapping each page
// request in the adapter's retry policy.
func (c *Chain) runAdapter(ctx context.Context, a Adapter, params model.SearchParams) ([]model.RawListing, error) {
	fetch := func(ctx context.Context, offset int) ([]model.RawListing, error) {
		var page []model.RawListing
		err := a.Policy.Do(ctx, c.Logger, a.Name, func(ctx context.Context) error {
			var err error
			page, err = a.Fetcher.FetchPage(ctx, params, offset)
			return err
		})
		return page, err
	}

	return paginate.Run(ctx, c.Pagination, params.Start, fetch, c.Logger)
}

// Details finds the first adapter in the chain that exposes a detail
// endpoint and fetches the full record through it under its retry policy.
func (c *Chain) Details(ctx context.Context, externalID string) (model.RawListing, error) {
	for _, a := range c.Adapters {
		df, ok := a.Fetcher.(model.DetailFetcher)
		if !ok {
			continue
		}

		var raw model.RawListing
		err := a.Policy.Do(ctx, c.Logger, a.Name+"/detail", func(ctx context.Context) error {
			var err error
			raw, err = df.FetchDetail(ctx, externalID)
			return err
		})
		if err != nil {
			return model.RawListing{}, fmt.Errorf("source %s: detail fetch: %w", c.Source, err)
		}
		return raw, nil
	}

	return model.RawListing{}, fmt.Errorf("source %s: no adapter supports detail fetch", c.Source)
}
