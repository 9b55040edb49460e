package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the JobScout aggregator.
type Config struct {
	DefaultSource string
	Sources       []SourceConfig
	Retry         RetryConfig
	Pagination    PaginationConfig
	RateLimit     RateLimitConfig
	Watch         WatchConfig
	Notification  NotificationConfig
	Store         StoreConfig
	Browser       BrowserConfig
}

// SourceConfig describes one external job source and which adapters of its
// fallback chain are available.
type SourceConfig struct {
	Name    string    `yaml:"name"`
	Enabled bool      `yaml:"enabled"`
	FeedURL string    `yaml:"feed_url"` // empty = no feed adapter
	API     APIConfig `yaml:"api"`
	Scrape  bool      `yaml:"scrape"` // source has a scrape profile
}

// APIConfig holds credentials for a source's authenticated API. Without
// credentials the API adapter is skipped entirely, not counted as a failure.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	AppID   string `yaml:"app_id"`
	AppKey  string `yaml:"app_key"`
	Country string `yaml:"country"`
}

// Configured reports whether a credential is present.
func (a APIConfig) Configured() bool {
	return a.AppID != "" && a.AppKey != ""
}

// RetryConfig controls the backoff policy applied to every adapter call.
type RetryConfig struct {
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	HTTPTimeout    time.Duration
	BrowserTimeout time.Duration
}

// PaginationConfig bounds the page walk per source.
type PaginationConfig struct {
	PageSize       int
	MaxResults     int
	EmptyPageLimit int
	PageDelay      time.Duration
}

// RateLimitConfig controls source-level rate limiting.
type RateLimitConfig struct {
	MinDelay        time.Duration            // minimum gap between requests to the same source
	SourceOverrides map[string]time.Duration // per-source overrides, keyed by source name
}

// MinDelayFor returns the configured delay for the given source, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.SourceOverrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// WatchConfig describes the saved search that watch mode re-runs.
type WatchConfig struct {
	Interval             time.Duration
	Query                string
	Location             string
	Remote               bool
	Sources              []string
	TitleKeywords        []string
	TitleExcludeKeywords []string
	Locations            []string
	ExcludeLocations     []string
	SeenMaxAge           time.Duration // seen-set entries older than this are cleaned up
}

// NotificationConfig controls which notifier watch mode uses.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// StoreConfig locates the sqlite database for saved jobs and the seen-set.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// BrowserConfig controls the headless browser used by scrape adapters.
type BrowserConfig struct {
	Headless  bool   `yaml:"headless"`
	UserAgent string `yaml:"user_agent"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	DefaultSource string             `yaml:"default_source"`
	Sources       []SourceConfig     `yaml:"sources"`
	Retry         rawRetryConfig     `yaml:"retry"`
	Pagination    rawPagination      `yaml:"pagination"`
	RateLimit     rawRateLimit       `yaml:"rate_limit"`
	Watch         rawWatchConfig     `yaml:"watch"`
	Notification  NotificationConfig `yaml:"notification"`
	Store         StoreConfig        `yaml:"store"`
	Browser       rawBrowserConfig   `yaml:"browser"`
}

type rawRetryConfig struct {
	MaxRetries     int    `yaml:"max_retries"`
	BaseDelay      string `yaml:"base_delay"`
	MaxDelay       string `yaml:"max_delay"`
	HTTPTimeout    string `yaml:"http_timeout"`
	BrowserTimeout string `yaml:"browser_timeout"`
}

type rawPagination struct {
	PageSize       int    `yaml:"page_size"`
	MaxResults     int    `yaml:"max_results"`
	EmptyPageLimit int    `yaml:"empty_page_limit"`
	PageDelay      string `yaml:"page_delay"`
}

type rawRateLimit struct {
	MinDelay        string            `yaml:"min_delay"`
	SourceOverrides map[string]string `yaml:"source_overrides"`
}

type rawWatchConfig struct {
	Interval             string   `yaml:"interval"`
	Query                string   `yaml:"query"`
	Location             string   `yaml:"location"`
	Remote               bool     `yaml:"remote"`
	Sources              []string `yaml:"sources"`
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
	SeenMaxAge           string   `yaml:"seen_max_age"`
}

type rawBrowserConfig struct {
	Headless  *bool  `yaml:"headless"`
	UserAgent string `yaml:"user_agent"`
}

// Default returns a working configuration when no config file exists:
// LinkedIn (feed → scrape) and Indeed (scrape) enabled, Adzuna enabled when
// credentials are present in the environment.
func Default() *Config {
	cfg := &Config{
		DefaultSource: "linkedin",
		Sources: []SourceConfig{
			{
				Name:    "linkedin",
				Enabled: true,
				FeedURL: "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search",
				Scrape:  true,
			},
			{Name: "indeed", Enabled: true, Scrape: true},
			{
				Name:    "adzuna",
				Enabled: true,
				API: APIConfig{
					BaseURL: "https://api.adzuna.com",
					AppID:   os.Getenv("ADZUNA_APP_ID"),
					AppKey:  os.Getenv("ADZUNA_APP_KEY"),
					Country: "us",
				},
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.DefaultSource == "" {
		cfg.DefaultSource = "linkedin"
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 3
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = 2 * time.Second
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = 10 * time.Second
	}
	if cfg.Retry.HTTPTimeout == 0 {
		cfg.Retry.HTTPTimeout = 10 * time.Second
	}
	if cfg.Retry.BrowserTimeout == 0 {
		cfg.Retry.BrowserTimeout = 60 * time.Second
	}
	if cfg.Pagination.PageSize == 0 {
		cfg.Pagination.PageSize = 25
	}
	if cfg.Pagination.MaxResults == 0 {
		cfg.Pagination.MaxResults = 100
	}
	if cfg.Pagination.EmptyPageLimit == 0 {
		cfg.Pagination.EmptyPageLimit = 2
	}
	if cfg.Pagination.PageDelay == 0 {
		cfg.Pagination.PageDelay = time.Second
	}
	if cfg.RateLimit.MinDelay == 0 {
		cfg.RateLimit.MinDelay = 2 * time.Second
	}
	if cfg.Watch.Interval == 0 {
		cfg.Watch.Interval = 30 * time.Minute
	}
	if cfg.Watch.SeenMaxAge == 0 {
		cfg.Watch.SeenMaxAge = 30 * 24 * time.Hour
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "jobscout.db"
	}
}

// Load reads and parses the YAML config file at path, expands environment
// variables, applies defaults, and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables (credentials are usually ${VAR} refs).
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		DefaultSource: raw.DefaultSource,
		Sources:       raw.Sources,
		Notification:  raw.Notification,
		Store:         raw.Store,
		Browser: BrowserConfig{
			Headless:  true,
			UserAgent: raw.Browser.UserAgent,
		},
	}
	if raw.Browser.Headless != nil {
		cfg.Browser.Headless = *raw.Browser.Headless
	}

	cfg.Retry.MaxRetries = raw.Retry.MaxRetries
	if cfg.Retry.BaseDelay, err = parseDuration(raw.Retry.BaseDelay, "retry.base_delay"); err != nil {
		return nil, err
	}
	if cfg.Retry.MaxDelay, err = parseDuration(raw.Retry.MaxDelay, "retry.max_delay"); err != nil {
		return nil, err
	}
	if cfg.Retry.HTTPTimeout, err = parseDuration(raw.Retry.HTTPTimeout, "retry.http_timeout"); err != nil {
		return nil, err
	}
	if cfg.Retry.BrowserTimeout, err = parseDuration(raw.Retry.BrowserTimeout, "retry.browser_timeout"); err != nil {
		return nil, err
	}

	cfg.Pagination.PageSize = raw.Pagination.PageSize
	cfg.Pagination.MaxResults = raw.Pagination.MaxResults
	cfg.Pagination.EmptyPageLimit = raw.Pagination.EmptyPageLimit
	if cfg.Pagination.PageDelay, err = parseDuration(raw.Pagination.PageDelay, "pagination.page_delay"); err != nil {
		return nil, err
	}

	if cfg.RateLimit.MinDelay, err = parseDuration(raw.RateLimit.MinDelay, "rate_limit.min_delay"); err != nil {
		return nil, err
	}
	if len(raw.RateLimit.SourceOverrides) > 0 {
		cfg.RateLimit.SourceOverrides = make(map[string]time.Duration)
		for source, v := range raw.RateLimit.SourceOverrides {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("parse rate_limit.source_overrides[%q]: %w", source, err)
			}
			cfg.RateLimit.SourceOverrides[source] = d
		}
	}

	cfg.Watch = WatchConfig{
		Query:                raw.Watch.Query,
		Location:             raw.Watch.Location,
		Remote:               raw.Watch.Remote,
		Sources:              raw.Watch.Sources,
		TitleKeywords:        raw.Watch.TitleKeywords,
		TitleExcludeKeywords: raw.Watch.TitleExcludeKeywords,
		Locations:            raw.Watch.Locations,
		ExcludeLocations:     raw.Watch.ExcludeLocations,
	}
	if cfg.Watch.Interval, err = parseDuration(raw.Watch.Interval, "watch.interval"); err != nil {
		return nil, err
	}
	if cfg.Watch.SeenMaxAge, err = parseDuration(raw.Watch.SeenMaxAge, "watch.seen_max_age"); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDuration(s, field string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("config: at least one source is required")
	}
	for _, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("config: source with empty name")
		}
		if s.FeedURL == "" && !s.Scrape && !s.API.Configured() {
			return fmt.Errorf("config: source %q has no usable adapter (feed_url, api credentials or scrape required)", s.Name)
		}
	}
	if cfg.Notification.Type == "slack" && cfg.Notification.WebhookURL == "" {
		return fmt.Errorf("config: notification.webhook_url is required for slack")
	}
	return nil
}
