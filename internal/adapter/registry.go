package adapter

import (
	"log/slog"
	"net/http"

	"github.com/avetisov/jobscout/internal/browser"
	"github.com/avetisov/jobscout/internal/config"
	"github.com/avetisov/jobscout/internal/fallback"
	"github.com/avetisov/jobscout/internal/model"
	"github.com/avetisov/jobscout/internal/paginate"
	"github.com/avetisov/jobscout/internal/retry"
)

// scrapeProfiles maps source names to their scrape profiles.
var scrapeProfiles = map[string]func() ScrapeProfile{
	"linkedin": LinkedInProfile,
	"indeed":   IndeedProfile,
}

// Deps carries the shared collaborators adapters need. Adapters themselves
// hold no mutable state, so they are safe to share across source tasks.
type Deps struct {
	Client  *http.Client
	Browser browser.Browser
	Logger  *slog.Logger
}

// Registry knows every configured source and builds its fallback chain in
// fixed priority order: feed → authenticated API → scrape. Chains carry
// per-run state, so Chain returns a fresh value on every call.
type Registry struct {
	specs         map[string]chainSpec
	order         []string
	defaultSource string
	pagination    paginate.Config
	logger        *slog.Logger
}

type chainSpec struct {
	adapters []fallback.Adapter
}

// NewRegistry builds the registry from configuration. Sources that are
// disabled or end up with no usable adapter (e.g. API-only without
// credentials) are skipped with a log line, never counted as failures.
func NewRegistry(cfg *config.Config, deps Deps) *Registry {
	httpPolicy := retry.Policy{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
		Timeout:    cfg.Retry.HTTPTimeout,
	}
	browserPolicy := httpPolicy
	browserPolicy.Timeout = cfg.Retry.BrowserTimeout

	r := &Registry{
		specs:         make(map[string]chainSpec),
		defaultSource: cfg.DefaultSource,
		pagination: paginate.Config{
			PageSize:   cfg.Pagination.PageSize,
			MaxResults: cfg.Pagination.MaxResults,
			EmptyLimit: cfg.Pagination.EmptyPageLimit,
			PageDelay:  cfg.Pagination.PageDelay,
		},
		logger: deps.Logger,
	}

	for _, src := range cfg.Sources {
		if !src.Enabled {
			continue
		}

		var adapters []fallback.Adapter

		if src.FeedURL != "" {
			adapters = append(adapters, fallback.Adapter{
				Name:    src.Name + "/feed",
				Fetcher: NewFeedAdapter(src.Name, src.FeedURL, deps.Client),
				Policy:  httpPolicy,
			})
		}

		if src.API.Configured() {
			adapters = append(adapters, fallback.Adapter{
				Name:    src.Name + "/api",
				Fetcher: NewAPIAdapter(src.Name, src.API.BaseURL, src.API.AppID, src.API.AppKey, src.API.Country, deps.Client),
				Policy:  httpPolicy,
			})
		}

		if src.Scrape {
			profileFn, ok := scrapeProfiles[src.Name]
			if !ok {
				deps.Logger.Warn("no scrape profile for source, skipping scrape adapter", "source", src.Name)
			} else {
				adapters = append(adapters, fallback.Adapter{
					Name:    src.Name + "/scrape",
					Fetcher: NewScrapeAdapter(profileFn(), deps.Browser, deps.Logger),
					Policy:  browserPolicy,
				})
			}
		}

		if len(adapters) == 0 {
			deps.Logger.Warn("source has no usable adapter, skipping", "source", src.Name)
			continue
		}

		r.specs[src.Name] = chainSpec{adapters: adapters}
		r.order = append(r.order, src.Name)
		deps.Logger.Info("registered source", "source", src.Name, "adapters", len(adapters))
	}

	return r
}

// Chain returns a fresh fallback chain for the source. The chain owns its
// run state, so each source task gets its own value.
func (r *Registry) Chain(source string) (*fallback.Chain, bool) {
	spec, ok := r.specs[source]
	if !ok {
		return nil, false
	}
	return &fallback.Chain{
		Source:     source,
		Adapters:   spec.adapters,
		Pagination: r.pagination,
		Logger:     r.logger,
	}, true
}

// Sources lists registered source names in configuration order.
func (r *Registry) Sources() []string {
	return append([]string(nil), r.order...)
}

// Default returns the source used when a search names none.
func (r *Registry) Default() string {
	return r.defaultSource
}

// AdapterNames lists the chain members for one source, in priority order.
// Used by the sources command.
func (r *Registry) AdapterNames(source string) []string {
	spec, ok := r.specs[source]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(spec.adapters))
	for _, a := range spec.adapters {
		names = append(names, a.Name)
	}
	return names
}

var (
	_ model.PageFetcher   = (*FeedAdapter)(nil)
	_ model.PageFetcher   = (*APIAdapter)(nil)
	_ model.PageFetcher   = (*ScrapeAdapter)(nil)
	_ model.DetailFetcher = (*ScrapeAdapter)(nil)
)
