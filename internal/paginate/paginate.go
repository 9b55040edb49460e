// Package paginate walks a source's result pages in ascending offset order.
package paginate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avetisov/jobscout/internal/model"
)

// Config bounds one paginated fetch. Zero values are replaced by Defaults.
type Config struct {
	PageSize   int           // offset increment per page; smallest common page size across sources
	MaxResults int           // hard cap on total retrieved listings
	EmptyLimit int           // consecutive empty pages before stopping
	PageDelay  time.Duration // pause between successful pages to stay under rate limits
}

// Defaults returns the production pagination bounds.
func Defaults() Config {
	return Config{PageSize: 25, MaxResults: 100, EmptyLimit: 2, PageDelay: time.Second}
}

func (c Config) withDefaults() Config {
	d := Defaults()
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	if c.EmptyLimit <= 0 {
		c.EmptyLimit = d.EmptyLimit
	}
	return c
}

// FetchFunc fetches one page of raw listings at the given offset. The
// function is expected to already carry retry behavior.
type FetchFunc func(ctx context.Context, offset int) ([]model.RawListing, error)

// Run fetches pages sequentially starting at start, stopping when EmptyLimit
// consecutive pages come back empty or the total reaches MaxResults. The
// empty-page counter resets on any non-empty page. A terminal fetch failure
// after at least one collected page keeps the partial results; with nothing
// collected it propagates so the fallback chain can advance.
func Run(ctx context.Context, cfg Config, start int, fetch FetchFunc, logger *slog.Logger) ([]model.RawListing, error) {
	cfg = cfg.withDefaults()

	var all []model.RawListing
	emptyPages := 0
	offset := start

	for {
		page, err := fetch(ctx, offset)
		if err != nil {
			if len(all) > 0 {
				logger.Warn("pagination stopped early, keeping partial results",
					"offset", offset,
					"collected", len(all),
					"error", err,
				)
				return all, nil
			}
			return nil, fmt.Errorf("page at offset %d: %w", offset, err)
		}

		if len(page) == 0 {
			emptyPages++
			if emptyPages >= cfg.EmptyLimit {
				break
			}
		} else {
			emptyPages = 0
			all = append(all, page...)
			if len(all) >= cfg.MaxResults {
				logger.Debug("pagination hit result cap", "collected", len(all), "cap", cfg.MaxResults)
				break
			}

			if cfg.PageDelay > 0 {
				select {
				case <-ctx.Done():
					return all, nil
				case <-time.After(cfg.PageDelay):
				}
			}
		}

		offset += cfg.PageSize
	}

	return all, nil
}
