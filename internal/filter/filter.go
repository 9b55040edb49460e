package filter

import (
	"strings"

	"github.com/avetisov/jobscout/internal/model"
)

// KeywordFilter applies client-side criteria that a source's query surface
// could not express: title keyword includes/excludes and location
// includes/excludes. Matching is case-insensitive substring; empty keyword
// lists are treated as "match all".
type KeywordFilter struct {
	titleKeywords        []string
	titleExcludeKeywords []string
	locations            []string
	excludeLocations     []string
}

// NewKeywordFilter returns a filter over title and location keywords.
func NewKeywordFilter(titleKeywords, titleExcludeKeywords, locations, excludeLocations []string) *KeywordFilter {
	return &KeywordFilter{
		titleKeywords:        titleKeywords,
		titleExcludeKeywords: titleExcludeKeywords,
		locations:            locations,
		excludeLocations:     excludeLocations,
	}
}

// Match returns true if the job passes all keyword criteria.
func (f *KeywordFilter) Match(job model.Job) bool {
	titleLower := strings.ToLower(job.Title)
	locationLower := strings.ToLower(job.Location)

	if containsAny(titleLower, f.titleExcludeKeywords) {
		return false
	}
	if containsAny(locationLower, f.excludeLocations) {
		return false
	}
	if len(f.titleKeywords) > 0 && !containsAny(titleLower, f.titleKeywords) {
		return false
	}
	if len(f.locations) > 0 && !containsAny(locationLower, f.locations) {
		return false
	}
	return true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
