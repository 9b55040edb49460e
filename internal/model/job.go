package model

import (
	"context"
	"time"
)

// JobType is the employment type filter for a search.
type JobType string

const (
	JobTypeAny        JobType = ""
	JobTypeFullTime   JobType = "fulltime"
	JobTypePartTime   JobType = "parttime"
	JobTypeContract   JobType = "contract"
	JobTypeTemporary  JobType = "temporary"
	JobTypeInternship JobType = "internship"
)

// ExperienceLevel narrows a search to a seniority band.
type ExperienceLevel string

const (
	ExperienceAny    ExperienceLevel = ""
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// DateWindow restricts results to postings within a recency window.
type DateWindow string

const (
	DateAny       DateWindow = ""
	DatePastDay   DateWindow = "day"
	DatePastWeek  DateWindow = "week"
	DatePastMonth DateWindow = "month"
)

// SortOrder controls result ordering where the source supports it.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortDate      SortOrder = "date"
)

// SearchParams is the immutable input to one aggregation call.
// Zero values mean "no filter" for the optional fields.
type SearchParams struct {
	Query      string
	Location   string
	JobType    JobType
	Remote     bool
	Experience ExperienceLevel
	DatePosted DateWindow
	Start      int
	Limit      int
	Sort       SortOrder
}

// RawListing is a source-specific intermediate record. Field coverage varies
// by adapter kind; Posted carries the source's raw date representation and is
// only interpreted by the normalizer. A RawListing never leaves the engine
// un-normalized.
type RawListing struct {
	Source      string
	ExternalID  string
	Title       string
	Company     string
	Location    string
	Description string
	Salary      string
	JobType     string
	URL         string
	Posted      string
}

// Job is the canonical, source-agnostic listing record returned to callers.
// (Platform, ExternalID) is the composite natural key; ID is derived from it
// and never supplied externally.
type Job struct {
	ID          string    `json:"id"`
	Platform    string    `json:"platform"`
	ExternalID  string    `json:"externalId"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Salary      string    `json:"salary,omitempty"`
	JobType     string    `json:"jobType,omitempty"`
	URL         string    `json:"url"`
	PostedAt    time.Time `json:"postedAt"`
	IsExternal  bool      `json:"isExternal"`
}

// Key returns the composite dedup key for this job.
func (j Job) Key() string {
	return j.Platform + "-" + j.ExternalID
}

// AggregationResult is the only value an aggregation call returns. Errors
// carries one human-readable string per failed source and never aborts Jobs.
type AggregationResult struct {
	Jobs   []Job    `json:"jobs"`
	Errors []string `json:"errors"`
}

// AdapterKind identifies the retrieval strategy of an adapter.
type AdapterKind string

const (
	KindFeed   AdapterKind = "feed"
	KindAPI    AdapterKind = "api"
	KindScrape AdapterKind = "scrape"
)

// PageFetcher fetches one page of raw listings at the given offset.
// Implementations classify failures as *NetworkError, *RateLimitError or
// *ParseError so the retry policy and fallback chain can route them.
type PageFetcher interface {
	Kind() AdapterKind
	FetchPage(ctx context.Context, params SearchParams, offset int) ([]RawListing, error)
}

// DetailFetcher retrieves the full record for a single known listing.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, externalID string) (RawListing, error)
}

// JobFilter decides whether a job matches client-side criteria that the
// source's query surface could not express.
type JobFilter interface {
	Match(job Job) bool
}

// SeenStore tracks which job keys have been seen across watch cycles.
type SeenStore interface {
	HasSeen(jobKey string) (bool, error)
	MarkSeen(jobKey string) error
	Cleanup(olderThan time.Duration) error
}

// Notifier delivers newly discovered job matches.
type Notifier interface {
	Notify(jobs []Job) error
}
