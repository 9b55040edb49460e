package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobscout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_APP_KEY", "secret-key")

	path := writeConfig(t, `
default_source: linkedin
sources:
  - name: linkedin
    enabled: true
    feed_url: https://example.com/feed
    scrape: true
  - name: adzuna
    enabled: true
    api:
      base_url: https://api.example.com
      app_id: my-id
      app_key: ${TEST_APP_KEY}
      country: de
retry:
  max_retries: 5
  base_delay: 1s
  max_delay: 20s
pagination:
  page_size: 10
  max_results: 40
rate_limit:
  min_delay: 3s
  source_overrides:
    indeed: 10s
watch:
  interval: 15m
  query: go developer
  title_keywords: [go, golang]
browser:
  headless: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(cfg.Sources))
	}
	if got := cfg.Sources[1].API.AppKey; got != "secret-key" {
		t.Errorf("app_key = %q, want env-expanded secret", got)
	}
	if !cfg.Sources[1].API.Configured() {
		t.Error("adzuna API should report configured")
	}

	if cfg.Retry.MaxRetries != 5 || cfg.Retry.BaseDelay != time.Second || cfg.Retry.MaxDelay != 20*time.Second {
		t.Errorf("retry config = %+v", cfg.Retry)
	}
	// Unset retry fields fall back to defaults.
	if cfg.Retry.HTTPTimeout != 10*time.Second || cfg.Retry.BrowserTimeout != 60*time.Second {
		t.Errorf("timeout defaults not applied: %+v", cfg.Retry)
	}

	if cfg.Pagination.PageSize != 10 || cfg.Pagination.MaxResults != 40 {
		t.Errorf("pagination = %+v", cfg.Pagination)
	}
	if cfg.Pagination.EmptyPageLimit != 2 {
		t.Errorf("EmptyPageLimit = %d, want default 2", cfg.Pagination.EmptyPageLimit)
	}

	if got := cfg.RateLimit.MinDelayFor("indeed"); got != 10*time.Second {
		t.Errorf("MinDelayFor(indeed) = %v, want override 10s", got)
	}
	if got := cfg.RateLimit.MinDelayFor("linkedin"); got != 3*time.Second {
		t.Errorf("MinDelayFor(linkedin) = %v, want base 3s", got)
	}

	if cfg.Watch.Interval != 15*time.Minute || cfg.Watch.Query != "go developer" {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	if cfg.Browser.Headless {
		t.Error("headless = true, want explicit false from the file")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: linkedin
    enabled: true
    scrape: true
retry:
  base_delay: not-a-duration
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "retry.base_delay") {
		t.Errorf("Load() error = %v, want base_delay parse error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() = nil, want error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no sources",
			yaml:    `default_source: linkedin`,
			wantErr: "at least one source",
		},
		{
			name: "source without adapters",
			yaml: `
sources:
  - name: mystery
    enabled: true
`,
			wantErr: "no usable adapter",
		},
		{
			name: "slack without webhook",
			yaml: `
sources:
  - name: linkedin
    enabled: true
    scrape: true
notification:
  type: slack
`,
			wantErr: "webhook_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultSource != "linkedin" {
		t.Errorf("DefaultSource = %q, want linkedin", cfg.DefaultSource)
	}
	if len(cfg.Sources) == 0 {
		t.Fatal("Default() has no sources")
	}
	if cfg.Retry.MaxRetries != 3 || cfg.Retry.BaseDelay != 2*time.Second {
		t.Errorf("retry defaults = %+v", cfg.Retry)
	}
	if cfg.Pagination.MaxResults != 100 {
		t.Errorf("MaxResults = %d, want 100", cfg.Pagination.MaxResults)
	}
	if cfg.Store.Path == "" {
		t.Error("Store.Path is empty")
	}
}
