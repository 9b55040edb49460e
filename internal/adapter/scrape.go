package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/avetisov/jobscout/internal/browser"
	"github.com/avetisov/jobscout/internal/model"
)

// ScrapeProfile describes how to pull listings out of one source's search
// results markup. Every field carries multiple candidate selectors because
// the markup varies by experiment and locale and drifts over time.
type ScrapeProfile struct {
	Source    string
	SearchURL func(params model.SearchParams, offset int) string
	DetailURL func(externalID string) string // nil when the source has no detail page

	Containers []string // result-container selectors the renderer waits for
	Item       []string // per-listing selectors within the container

	Title    []string
	Company  []string
	Location []string
	Salary   []string
	JobType  []string
	Posted   []string
	Link     []string // anchor selectors for the listing URL
	IDAttrs  []string // attributes (on the item or its link) carrying the external id

	DetailTitle       []string
	DetailCompany     []string
	DetailDescription []string

	BaseURL string // for resolving relative listing links
}

// ScrapeAdapter drives a headless browser against a source's search results
// page and extracts listings with candidate selectors. The browser session is
// scoped to the single fetch call and closed on every exit path.
type ScrapeAdapter struct {
	profile ScrapeProfile
	browser browser.Browser
	logger  *slog.Logger
}

// NewScrapeAdapter creates a scrape adapter for the given profile.
func NewScrapeAdapter(profile ScrapeProfile, b browser.Browser, logger *slog.Logger) *ScrapeAdapter {
	return &ScrapeAdapter{profile: profile, browser: b, logger: logger}
}

// Kind implements model.PageFetcher.
func (a *ScrapeAdapter) Kind() model.AdapterKind {
	return model.KindScrape
}

// FetchPage renders the search results page and extracts listings. A listing
// is accepted only when both title and company resolve to non-empty text.
// Zero extracted listings with a matched container is a legitimate empty
// page, not a failure.
func (a *ScrapeAdapter) FetchPage(ctx context.Context, params model.SearchParams, offset int) ([]model.RawListing, error) {
	doc, err := a.render(ctx, a.profile.SearchURL(params, offset))
	if err != nil {
		return nil, err
	}

	if !anySelectorPresent(doc, a.profile.Containers) {
		return nil, &model.ParseError{
			Source: a.profile.Source + " scrape",
			Err:    errors.New("no known result container matched"),
		}
	}

	var listings []model.RawListing
	items := findFirst(doc, a.profile.Item)
	items.Each(func(_ int, s *goquery.Selection) {
		raw, ok := a.listingFromItem(s)
		if !ok {
			return
		}
		listings = append(listings, raw)
	})

	if len(listings) == 0 {
		a.logger.Debug("scrape extracted no listings",
			"source", a.profile.Source,
			"offset", offset,
			"items", items.Length(),
		)
	}
	return listings, nil
}

// FetchDetail renders the job view page for one listing and extracts the
// full description. Implements model.DetailFetcher when the profile has a
// detail page.
func (a *ScrapeAdapter) FetchDetail(ctx context.Context, externalID string) (model.RawListing, error) {
	if a.profile.DetailURL == nil {
		return model.RawListing{}, fmt.Errorf("%s: no detail page", a.profile.Source)
	}

	jobURL := a.profile.DetailURL(externalID)
	doc, err := a.render(ctx, jobURL)
	if err != nil {
		return model.RawListing{}, err
	}

	raw := model.RawListing{
		Source:      a.profile.Source,
		ExternalID:  externalID,
		Title:       firstText(doc.Selection, a.profile.DetailTitle),
		Company:     firstText(doc.Selection, a.profile.DetailCompany),
		Description: firstText(doc.Selection, a.profile.DetailDescription),
		URL:         jobURL,
	}
	if raw.Title == "" || raw.Company == "" {
		return model.RawListing{}, &model.ParseError{
			Source: a.profile.Source + " scrape",
			Err:    fmt.Errorf("detail page for %s missing title or company", externalID),
		}
	}
	return raw, nil
}

// render runs one scoped browser session: acquire, navigate, release on
// every path.
func (a *ScrapeAdapter) render(ctx context.Context, pageURL string) (*goquery.Document, error) {
	sess, err := a.browser.NewSession(ctx)
	if err != nil {
		return nil, &model.NetworkError{Op: a.profile.Source + " scrape", Err: err}
	}
	defer sess.Close()

	html, err := sess.HTML(ctx, pageURL, a.profile.Containers)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &model.NetworkError{Op: a.profile.Source + " scrape", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &model.ParseError{Source: a.profile.Source + " scrape", Err: err}
	}
	return doc, nil
}

func (a *ScrapeAdapter) listingFromItem(s *goquery.Selection) (model.RawListing, bool) {
	title := firstText(s, a.profile.Title)
	company := firstText(s, a.profile.Company)
	if title == "" || company == "" {
		return model.RawListing{}, false
	}

	link := firstAttr(s, a.profile.Link, "href")
	link = absoluteURL(a.profile.BaseURL, link)

	externalID := itemID(s, a.profile.IDAttrs)
	if externalID == "" {
		externalID = hashID(link)
	}

	return model.RawListing{
		Source:     a.profile.Source,
		ExternalID: externalID,
		Title:      title,
		Company:    company,
		Location:   firstText(s, a.profile.Location),
		Salary:     firstText(s, a.profile.Salary),
		JobType:    firstText(s, a.profile.JobType),
		URL:        link,
		Posted:     firstText(s, a.profile.Posted),
	}, true
}

// firstText returns the trimmed text of the first candidate selector that
// resolves to non-empty content.
func firstText(s *goquery.Selection, candidates []string) string {
	for _, sel := range candidates {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns the named attribute from the first candidate selector
// carrying it.
func firstAttr(s *goquery.Selection, candidates []string, attr string) string {
	for _, sel := range candidates {
		if val, ok := s.Find(sel).First().Attr(attr); ok && val != "" {
			return val
		}
	}
	return ""
}

// itemID pulls the external id from the item's own attributes or from any
// descendant carrying one of the candidate attributes. URN-style values keep
// only the trailing id segment.
func itemID(s *goquery.Selection, attrs []string) string {
	for _, attr := range attrs {
		if val, ok := s.Attr(attr); ok && val != "" {
			return trimURN(val)
		}
		if val, ok := s.Find("[" + attr + "]").First().Attr(attr); ok && val != "" {
			return trimURN(val)
		}
	}
	return ""
}

func trimURN(s string) string {
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

func findFirst(doc *goquery.Document, candidates []string) *goquery.Selection {
	for _, sel := range candidates {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return doc.Find("") // empty selection
}

func anySelectorPresent(doc *goquery.Document, candidates []string) bool {
	for _, sel := range candidates {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

func absoluteURL(base, href string) string {
	if href == "" || base == "" {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
