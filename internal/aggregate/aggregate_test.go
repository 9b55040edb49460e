package aggregate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/avetisov/jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRunner struct {
	listings []model.RawListing
	err      error
}

func (r *stubRunner) Run(_ context.Context, _ model.SearchParams) ([]model.RawListing, error) {
	return r.listings, r.err
}

type stubDetailRunner struct {
	raw model.RawListing
	err error
}

func (r *stubDetailRunner) Details(_ context.Context, externalID string) (model.RawListing, error) {
	if r.err != nil {
		return model.RawListing{}, r.err
	}
	raw := r.raw
	raw.ExternalID = externalID
	return raw, nil
}

func coordinatorFor(runners map[string]*stubRunner, details map[string]*stubDetailRunner, defaultSource string) *Coordinator {
	chainFor := func(source string) (Runner, bool) {
		r, ok := runners[source]
		return r, ok
	}
	detailFor := func(source string) (DetailRunner, bool) {
		r, ok := details[source]
		return r, ok
	}
	return New(chainFor, detailFor, defaultSource, nil, discardLogger())
}

func rawListing(source, id, title, company string) model.RawListing {
	return model.RawListing{Source: source, ExternalID: id, Title: title, Company: company}
}

func TestSearchIsolatesFailedSource(t *testing.T) {
	runners := map[string]*stubRunner{
		"alpha": {err: errors.New("all adapters exhausted")},
		"beta": {listings: []model.RawListing{
			rawListing("beta", "1", "Go Developer", "Acme"),
			rawListing("beta", "2", "Backend Engineer", "Initech"),
		}},
	}
	c := coordinatorFor(runners, nil, "beta")

	result := c.Search(context.Background(), model.SearchParams{Query: "go"}, []string{"alpha", "beta"})

	if len(result.Jobs) != 2 {
		t.Errorf("got %d jobs, want 2 from the healthy source", len(result.Jobs))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	for _, j := range result.Jobs {
		if j.Platform != "beta" {
			t.Errorf("job from platform %q, want beta only", j.Platform)
		}
	}
}

func TestSearchAllSourcesFail(t *testing.T) {
	runners := map[string]*stubRunner{
		"alpha": {err: errors.New("down")},
		"beta":  {err: errors.New("down too")},
	}
	c := coordinatorFor(runners, nil, "alpha")

	result := c.Search(context.Background(), model.SearchParams{}, []string{"alpha", "beta"})

	if len(result.Jobs) != 0 {
		t.Errorf("got %d jobs, want 0", len(result.Jobs))
	}
	if len(result.Errors) != 2 {
		t.Errorf("got %d errors, want 2", len(result.Errors))
	}
	if result.Errors == nil {
		t.Error("Errors is nil, want empty-capable slice so JSON renders an array")
	}
}

func TestSearchUnknownSource(t *testing.T) {
	c := coordinatorFor(map[string]*stubRunner{}, nil, "alpha")

	result := c.Search(context.Background(), model.SearchParams{}, []string{"nosuch"})

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "unknown source") {
		t.Errorf("Errors = %v, want one unknown-source entry", result.Errors)
	}
}

func TestSearchDefaultsToDefaultSource(t *testing.T) {
	runners := map[string]*stubRunner{
		"alpha": {listings: []model.RawListing{rawListing("alpha", "1", "SRE", "Acme")}},
	}
	c := coordinatorFor(runners, nil, "alpha")

	result := c.Search(context.Background(), model.SearchParams{}, nil)

	if len(result.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1 from the default source", len(result.Jobs))
	}
}

func TestSearchDeduplicatesByPlatformAndID(t *testing.T) {
	// Two sources surface the same underlying listing.
	runners := map[string]*stubRunner{
		"alpha": {listings: []model.RawListing{
			rawListing("shared", "1", "Go Developer", "Acme"),
			rawListing("alpha", "1", "Go Developer", "Acme"),
		}},
		"beta": {listings: []model.RawListing{
			rawListing("shared", "1", "Go Developer", "Acme"),
		}},
	}
	c := coordinatorFor(runners, nil, "alpha")

	result := c.Search(context.Background(), model.SearchParams{}, []string{"alpha", "beta"})

	if len(result.Jobs) != 2 {
		t.Fatalf("got %d jobs, want 2 (same external id on different platforms is distinct)", len(result.Jobs))
	}
	seen := make(map[string]bool)
	for _, j := range result.Jobs {
		if seen[j.Key()] {
			t.Errorf("duplicate key %q in result", j.Key())
		}
		seen[j.Key()] = true
	}
}

func TestSearchDropsInvalidListings(t *testing.T) {
	runners := map[string]*stubRunner{
		"alpha": {listings: []model.RawListing{
			rawListing("alpha", "1", "Go Developer", "Acme"),
			rawListing("alpha", "2", "Backend Engineer", "Initech"),
			rawListing("alpha", "3", "SRE", "Globex"),
			rawListing("alpha", "4", "Orphan Listing", ""),
		}},
	}
	c := coordinatorFor(runners, nil, "alpha")

	result := c.Search(context.Background(), model.SearchParams{}, []string{"alpha"})

	if len(result.Jobs) != 3 {
		t.Errorf("got %d jobs, want 3 (listing without company dropped)", len(result.Jobs))
	}
	if len(result.Errors) != 0 {
		t.Errorf("got %d errors, want 0 (validation drops are silent)", len(result.Errors))
	}
}

func TestSearchAppliesLimit(t *testing.T) {
	var raws []model.RawListing
	for i := 0; i < 10; i++ {
		raws = append(raws, rawListing("alpha", string(rune('a'+i)), "Engineer", "Acme"))
	}
	runners := map[string]*stubRunner{"alpha": {listings: raws}}
	c := coordinatorFor(runners, nil, "alpha")

	result := c.Search(context.Background(), model.SearchParams{Limit: 4}, []string{"alpha"})

	if len(result.Jobs) != 4 {
		t.Errorf("got %d jobs, want 4 (limit)", len(result.Jobs))
	}
}

func TestDetails(t *testing.T) {
	details := map[string]*stubDetailRunner{
		"alpha": {raw: model.RawListing{Source: "alpha", Title: "Go Developer", Company: "Acme", Description: "Full description"}},
	}
	c := coordinatorFor(nil, details, "alpha")

	job, err := c.Details(context.Background(), "alpha", "42")
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if job.ExternalID != "42" || job.Description != "Full description" {
		t.Errorf("Details() = %+v, want listing 42 with description", job)
	}
	if job.ID != "alpha-42" {
		t.Errorf("ID = %q, want alpha-42", job.ID)
	}
}

func TestDetailsUnknownSource(t *testing.T) {
	c := coordinatorFor(nil, map[string]*stubDetailRunner{}, "alpha")

	if _, err := c.Details(context.Background(), "nosuch", "42"); err == nil {
		t.Fatal("Details() = nil, want error for unknown source")
	}
}

func TestDetailsInvalidListing(t *testing.T) {
	details := map[string]*stubDetailRunner{
		"alpha": {raw: model.RawListing{Source: "alpha", Title: "Untitled"}},
	}
	c := coordinatorFor(nil, details, "alpha")

	if _, err := c.Details(context.Background(), "alpha", "42"); err == nil {
		t.Fatal("Details() = nil, want validation error for listing without company")
	}
}
