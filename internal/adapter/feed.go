package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmcdole/gofeed"

	"github.com/avetisov/jobscout/internal/model"
)

// Page size fixed at the feed endpoints' documented maximum.
const feedPageSize = 25

// Job-type codes used by the syndication endpoints.
var feedJobTypeCodes = map[model.JobType]string{
	model.JobTypeFullTime:   "F",
	model.JobTypePartTime:   "P",
	model.JobTypeContract:   "C",
	model.JobTypeTemporary:  "T",
	model.JobTypeInternship: "I",
}

// Date-posted window codes (seconds of lookback).
var feedDateCodes = map[model.DateWindow]string{
	model.DatePastDay:   "r86400",
	model.DatePastWeek:  "r604800",
	model.DatePastMonth: "r2592000",
}

// FeedAdapter retrieves listings from a source's RSS/Atom search feed.
type FeedAdapter struct {
	source  string
	baseURL string
	client  *http.Client
	parser  *gofeed.Parser
}

// NewFeedAdapter creates a feed adapter for the given syndication endpoint.
func NewFeedAdapter(source, baseURL string, client *http.Client) *FeedAdapter {
	return &FeedAdapter{
		source:  source,
		baseURL: baseURL,
		client:  client,
		parser:  gofeed.NewParser(),
	}
}

// Kind implements model.PageFetcher.
func (a *FeedAdapter) Kind() model.AdapterKind {
	return model.KindFeed
}

// FetchPage issues a GET against the feed endpoint built from params and
// parses the response entries. Entries missing a title or company are
// dropped, never surfaced as errors.
func (a *FeedAdapter) FetchPage(ctx context.Context, params model.SearchParams, offset int) ([]model.RawListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.buildURL(params, offset), nil)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", a.source, err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &model.NetworkError{Op: a.source + " feed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(a.source+" feed", resp)
	}

	feed, err := a.parser.Parse(resp.Body)
	if err != nil {
		return nil, &model.ParseError{Source: a.source + " feed", Err: err}
	}

	listings := make([]model.RawListing, 0, len(feed.Items))
	for _, item := range feed.Items {
		raw, ok := a.listingFromItem(item)
		if !ok {
			continue
		}
		listings = append(listings, raw)
	}
	return listings, nil
}

func (a *FeedAdapter) buildURL(params model.SearchParams, offset int) string {
	values := url.Values{}
	values.Set("q", params.Query)
	values.Set("start", strconv.Itoa(offset))
	values.Set("count", strconv.Itoa(feedPageSize))

	location := params.Location
	if params.Remote && location == "" {
		location = "Remote"
	}
	if location != "" {
		values.Set("location", location)
	}
	if code, ok := feedJobTypeCodes[params.JobType]; ok && params.JobType != model.JobTypeAny {
		values.Set("f_JT", code)
	}
	if code, ok := feedDateCodes[params.DatePosted]; ok {
		values.Set("f_TPR", code)
	}
	if params.Sort == model.SortDate {
		values.Set("sortBy", "DD")
	}

	return a.baseURL + "?" + values.Encode()
}

// listingFromItem maps one feed entry. Company comes from the entry author
// when present, falling back to "Title at Company" feed titles.
func (a *FeedAdapter) listingFromItem(item *gofeed.Item) (model.RawListing, bool) {
	title := item.Title
	company := ""
	if item.Author != nil {
		company = item.Author.Name
	}
	if company == "" {
		title, company = splitTitleCompany(item.Title)
	}
	if title == "" || company == "" {
		return model.RawListing{}, false
	}

	externalID := item.GUID
	if externalID == "" {
		externalID = hashID(item.Link)
	}

	raw := model.RawListing{
		Source:      a.source,
		ExternalID:  externalID,
		Title:       title,
		Company:     company,
		Description: extractText(item.Description),
		URL:         item.Link,
		Posted:      item.Published,
	}
	if loc, ok := item.Custom["location"]; ok {
		raw.Location = loc
	}
	return raw, true
}
