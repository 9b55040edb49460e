package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/avetisov/jobscout/internal/model"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>job search</title>
    <item>
      <title>Go Developer at Acme</title>
      <guid>123</guid>
      <link>https://example.com/jobs/123</link>
      <pubDate>Tue, 10 Jun 2025 08:30:00 +0000</pubDate>
      <description>&lt;p&gt;Build &amp;amp; ship services.&lt;/p&gt;</description>
    </item>
    <item>
      <title>Backend Engineer at Initech</title>
      <guid>456</guid>
      <link>https://example.com/jobs/456</link>
      <pubDate>Mon, 09 Jun 2025 10:00:00 +0000</pubDate>
      <description>desc</description>
    </item>
    <item>
      <title>Untitled Listing</title>
      <guid>789</guid>
      <link>https://example.com/jobs/789</link>
    </item>
  </channel>
</rss>`

func TestFeedFetchPage(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedFixture)
	}))
	defer srv.Close()

	a := NewFeedAdapter("linkedin", srv.URL, srv.Client())
	params := model.SearchParams{
		Query:      "go developer",
		Location:   "Berlin",
		JobType:    model.JobTypeFullTime,
		DatePosted: model.DatePastWeek,
		Sort:       model.SortDate,
	}

	listings, err := a.FetchPage(context.Background(), params, 25)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	// The third entry has no "Title at Company" pattern and no author, so it
	// is dropped during mapping.
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}

	first := listings[0]
	if first.Title != "Go Developer" || first.Company != "Acme" {
		t.Errorf("title/company = %q/%q, want Go Developer/Acme", first.Title, first.Company)
	}
	if first.ExternalID != "123" {
		t.Errorf("ExternalID = %q, want guid 123", first.ExternalID)
	}
	if first.Description != "Build & ship services." {
		t.Errorf("Description = %q, want plain text", first.Description)
	}

	if got := gotQuery.Get("q"); got != "go developer" {
		t.Errorf("q = %q, want query", got)
	}
	if got := gotQuery.Get("start"); got != "25" {
		t.Errorf("start = %q, want offset 25", got)
	}
	if got := gotQuery.Get("location"); got != "Berlin" {
		t.Errorf("location = %q, want Berlin", got)
	}
	if got := gotQuery.Get("f_JT"); got != "F" {
		t.Errorf("f_JT = %q, want F", got)
	}
	if got := gotQuery.Get("f_TPR"); got != "r604800" {
		t.Errorf("f_TPR = %q, want r604800", got)
	}
	if got := gotQuery.Get("sortBy"); got != "DD" {
		t.Errorf("sortBy = %q, want DD", got)
	}
}

func TestFeedRemoteDefaultsLocation(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, feedFixture)
	}))
	defer srv.Close()

	a := NewFeedAdapter("linkedin", srv.URL, srv.Client())
	if _, err := a.FetchPage(context.Background(), model.SearchParams{Query: "go", Remote: true}, 0); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if got := gotQuery.Get("location"); got != "Remote" {
		t.Errorf("location = %q, want Remote when the remote flag is set without a location", got)
	}
}

func TestFeedRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewFeedAdapter("linkedin", srv.URL, srv.Client())
	_, err := a.FetchPage(context.Background(), model.SearchParams{Query: "go"}, 0)

	var rl *model.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("FetchPage() error = %v, want *model.RateLimitError", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rl.RetryAfter)
	}
}

func TestFeedServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewFeedAdapter("linkedin", srv.URL, srv.Client())
	_, err := a.FetchPage(context.Background(), model.SearchParams{Query: "go"}, 0)

	var ne *model.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("FetchPage() error = %v, want *model.NetworkError", err)
	}
	if !model.Retryable(err) {
		t.Error("5xx should be retryable")
	}
}

func TestFeedMalformedBodyIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	}))
	defer srv.Close()

	a := NewFeedAdapter("linkedin", srv.URL, srv.Client())
	_, err := a.FetchPage(context.Background(), model.SearchParams{Query: "go"}, 0)

	var pe *model.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("FetchPage() error = %v, want *model.ParseError", err)
	}
	if model.Retryable(err) {
		t.Error("parse errors must not be retried")
	}
}
