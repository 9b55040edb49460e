// Package normalize maps source-specific raw listings into the canonical Job
// shape. Pure functions, no I/O.
package normalize

import (
	"strings"
	"time"

	"github.com/avetisov/jobscout/internal/model"
)

// Listing converts a raw listing to a canonical Job. It returns false when
// the listing fails validation (empty title or company); such listings are
// silently dropped, never surfaced as errors. Missing optional fields stay
// empty rather than causing rejection.
func Listing(raw model.RawListing, now time.Time) (model.Job, bool) {
	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.Company)
	if title == "" || company == "" {
		return model.Job{}, false
	}

	job := model.Job{
		Platform:    raw.Source,
		ExternalID:  raw.ExternalID,
		Title:       title,
		Company:     company,
		Location:    strings.TrimSpace(raw.Location),
		Description: strings.TrimSpace(raw.Description),
		Salary:      strings.TrimSpace(raw.Salary),
		JobType:     strings.TrimSpace(raw.JobType),
		URL:         raw.URL,
		PostedAt:    ParseDate(raw.Posted, now),
		IsExternal:  true,
	}
	job.ID = job.Key()
	return job, true
}

// All normalizes a batch, dropping invalid listings and preserving order.
func All(raws []model.RawListing, now time.Time) []model.Job {
	jobs := make([]model.Job, 0, len(raws))
	for _, raw := range raws {
		if job, ok := Listing(raw, now); ok {
			jobs = append(jobs, job)
		}
	}
	return jobs
}
