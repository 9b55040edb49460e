package fallback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/avetisov/jobscout/internal/model"
	"github.com/avetisov/jobscout/internal/paginate"
	"github.com/avetisov/jobscout/internal/retry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPolicy() retry.Policy {
	return retry.Policy{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func testPagination() paginate.Config {
	return paginate.Config{PageSize: 25, MaxResults: 100, EmptyLimit: 2}
}

func listings(source string, n int) []model.RawListing {
	out := make([]model.RawListing, n)
	for i := range out {
		out[i] = model.RawListing{Source: source, Title: "t", Company: "c"}
	}
	return out
}

// stubFetcher returns its scripted pages in order, then empty pages forever.
// A non-nil err fails every call.
type stubFetcher struct {
	kind  model.AdapterKind
	pages [][]model.RawListing
	err   error
	calls int
}

func (f *stubFetcher) Kind() model.AdapterKind {
	if f.kind == "" {
		return model.KindAPI
	}
	return f.kind
}

func (f *stubFetcher) FetchPage(_ context.Context, _ model.SearchParams, _ int) ([]model.RawListing, error) {
	i := f.calls
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	return nil, nil
}

// stubDetailFetcher adds a detail endpoint to stubFetcher.
type stubDetailFetcher struct {
	stubFetcher
	detail    model.RawListing
	detailErr error
}

func (f *stubDetailFetcher) FetchDetail(_ context.Context, externalID string) (model.RawListing, error) {
	if f.detailErr != nil {
		return model.RawListing{}, f.detailErr
	}
	raw := f.detail
	raw.ExternalID = externalID
	return raw, nil
}

func newChain(adapters ...Adapter) *Chain {
	return &Chain{
		Source:     "test",
		Adapters:   adapters,
		Pagination: testPagination(),
		Logger:     discardLogger(),
	}
}

func TestChainFirstAdapterSucceeds(t *testing.T) {
	first := &stubFetcher{pages: [][]model.RawListing{listings("test", 10)}}
	second := &stubFetcher{pages: [][]model.RawListing{listings("test", 99)}}
	chain := newChain(
		Adapter{Name: "test/feed", Fetcher: first, Policy: testPolicy()},
		Adapter{Name: "test/scrape", Fetcher: second, Policy: testPolicy()},
	)

	got, err := chain.Run(context.Background(), model.SearchParams{Query: "go"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 10 {
		t.Errorf("got %d listings, want 10", len(got))
	}
	if chain.State() != StateSucceeded {
		t.Errorf("state = %v, want %v", chain.State(), StateSucceeded)
	}
	if second.calls != 0 {
		t.Errorf("second adapter called %d times, want 0", second.calls)
	}
}

func TestChainAdvancesOnTerminalFailure(t *testing.T) {
	first := &stubFetcher{err: &model.ParseError{Source: "test feed", Err: errors.New("bad xml")}}
	second := &stubFetcher{pages: [][]model.RawListing{listings("test", 5)}}
	chain := newChain(
		Adapter{Name: "test/feed", Fetcher: first, Policy: testPolicy()},
		Adapter{Name: "test/scrape", Fetcher: second, Policy: testPolicy()},
	)

	got, err := chain.Run(context.Background(), model.SearchParams{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 5 {
		t.Errorf("got %d listings, want 5 from the fallback adapter", len(got))
	}
	if chain.State() != StateSucceeded {
		t.Errorf("state = %v, want %v", chain.State(), StateSucceeded)
	}
}

func TestChainAdvancesOnEmptyResult(t *testing.T) {
	first := &stubFetcher{} // only empty pages
	second := &stubFetcher{pages: [][]model.RawListing{listings("test", 3)}}
	chain := newChain(
		Adapter{Name: "test/feed", Fetcher: first, Policy: testPolicy()},
		Adapter{Name: "test/scrape", Fetcher: second, Policy: testPolicy()},
	)

	got, err := chain.Run(context.Background(), model.SearchParams{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d listings, want 3", len(got))
	}
}

func TestChainExhaustedWithFailure(t *testing.T) {
	first := &stubFetcher{err: &model.ParseError{Source: "test feed", Err: errors.New("bad xml")}}
	second := &stubFetcher{err: &model.ParseError{Source: "test scrape", Err: errors.New("no container")}}
	chain := newChain(
		Adapter{Name: "test/feed", Fetcher: first, Policy: testPolicy()},
		Adapter{Name: "test/scrape", Fetcher: second, Policy: testPolicy()},
	)

	_, err := chain.Run(context.Background(), model.SearchParams{})
	if err == nil {
		t.Fatal("Run() = nil, want error when every adapter failed")
	}
	if !strings.Contains(err.Error(), "all adapters exhausted") {
		t.Errorf("error = %q, want mention of exhaustion", err)
	}
	if chain.State() != StateExhausted {
		t.Errorf("state = %v, want %v", chain.State(), StateExhausted)
	}
}

func TestChainExhaustedAllEmptyIsNotAnError(t *testing.T) {
	chain := newChain(
		Adapter{Name: "test/feed", Fetcher: &stubFetcher{}, Policy: testPolicy()},
		Adapter{Name: "test/scrape", Fetcher: &stubFetcher{}, Policy: testPolicy()},
	)

	got, err := chain.Run(context.Background(), model.SearchParams{})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for a legitimate empty result", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d listings, want 0", len(got))
	}
	if chain.State() != StateExhausted {
		t.Errorf("state = %v, want %v", chain.State(), StateExhausted)
	}
}

func TestChainDetailsUsesFirstCapableAdapter(t *testing.T) {
	plain := &stubFetcher{}
	detailed := &stubDetailFetcher{detail: model.RawListing{Source: "test", Title: "Engineer", Company: "Acme"}}
	chain := newChain(
		Adapter{Name: "test/feed", Fetcher: plain, Policy: testPolicy()},
		Adapter{Name: "test/scrape", Fetcher: detailed, Policy: testPolicy()},
	)

	raw, err := chain.Details(context.Background(), "42")
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if raw.ExternalID != "42" || raw.Title != "Engineer" {
		t.Errorf("Details() = %+v, want listing 42", raw)
	}
}

func TestChainDetailsUnsupported(t *testing.T) {
	chain := newChain(Adapter{Name: "test/feed", Fetcher: &stubFetcher{}, Policy: testPolicy()})

	_, err := chain.Details(context.Background(), "42")
	if err == nil || !strings.Contains(err.Error(), "no adapter supports detail fetch") {
		t.Errorf("Details() error = %v, want unsupported error", err)
	}
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{pages: [][]model.RawListing{listings("test", 5)}}
	chain := newChain(Adapter{Name: "test/feed", Fetcher: fetcher, Policy: testPolicy()})

	_, err := chain.Run(ctx, model.SearchParams{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if chain.State() != StateExhausted {
		t.Errorf("state = %v, want %v", chain.State(), StateExhausted)
	}
}
