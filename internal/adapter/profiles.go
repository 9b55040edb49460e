package adapter

import (
	"net/url"
	"strconv"

	"github.com/avetisov/jobscout/internal/model"
)

// Experience-level facet codes used by the LinkedIn search page.
var linkedinExperienceCodes = map[model.ExperienceLevel]string{
	model.ExperienceEntry:  "2",
	model.ExperienceMid:    "3",
	model.ExperienceSenior: "4",
}

// LinkedInProfile returns the scrape profile for LinkedIn's guest search
// results. Multiple container and field selectors cover the markup variants
// LinkedIn serves across experiments and locales.
func LinkedInProfile() ScrapeProfile {
	return ScrapeProfile{
		Source:  "linkedin",
		BaseURL: "https://www.linkedin.com",
		SearchURL: func(params model.SearchParams, offset int) string {
			values := url.Values{}
			values.Set("keywords", params.Query)
			values.Set("start", strconv.Itoa(offset))
			if params.Location != "" {
				values.Set("location", params.Location)
			}
			if params.Remote {
				values.Set("f_WT", "2")
			}
			if code, ok := feedJobTypeCodes[params.JobType]; ok && params.JobType != model.JobTypeAny {
				values.Set("f_JT", code)
			}
			if code, ok := linkedinExperienceCodes[params.Experience]; ok {
				values.Set("f_E", code)
			}
			if code, ok := feedDateCodes[params.DatePosted]; ok {
				values.Set("f_TPR", code)
			}
			if params.Sort == model.SortDate {
				values.Set("sortBy", "DD")
			}
			return "https://www.linkedin.com/jobs/search?" + values.Encode()
		},
		DetailURL: func(externalID string) string {
			return "https://www.linkedin.com/jobs/view/" + externalID
		},
		Containers: []string{
			"ul.jobs-search__results-list",
			"div.jobs-search-results-list",
			"ul.scaffold-layout__list-container",
		},
		Item: []string{
			"ul.jobs-search__results-list > li",
			"div.base-card",
			"div.job-search-card",
		},
		Title: []string{
			"h3.base-search-card__title",
			"a.job-card-list__title",
			"h3.job-search-card__title",
		},
		Company: []string{
			"h4.base-search-card__subtitle",
			"a.hidden-nested-link",
			"span.job-card-container__company-name",
		},
		Location: []string{
			"span.job-search-card__location",
			"li.job-card-container__metadata-item",
		},
		Posted: []string{
			"time.job-search-card__listdate",
			"time.job-search-card__listdate--new",
			"time",
		},
		Link: []string{
			"a.base-card__full-link",
			"a.job-card-list__title",
		},
		IDAttrs: []string{"data-entity-urn", "data-id"},
		DetailTitle: []string{
			"h1.top-card-layout__title",
			"h1.topcard__title",
		},
		DetailCompany: []string{
			"a.topcard__org-name-link",
			"span.topcard__flavor",
		},
		DetailDescription: []string{
			"div.show-more-less-html__markup",
			"div.description__text",
		},
	}
}

// IndeedProfile returns the scrape profile for Indeed's search results.
func IndeedProfile() ScrapeProfile {
	return ScrapeProfile{
		Source:  "indeed",
		BaseURL: "https://www.indeed.com",
		SearchURL: func(params model.SearchParams, offset int) string {
			values := url.Values{}
			values.Set("q", params.Query)
			values.Set("start", strconv.Itoa(offset))
			location := params.Location
			if params.Remote && location == "" {
				location = "Remote"
			}
			if location != "" {
				values.Set("l", location)
			}
			if params.JobType != model.JobTypeAny {
				values.Set("jt", string(params.JobType))
			}
			switch params.DatePosted {
			case model.DatePastDay:
				values.Set("fromage", "1")
			case model.DatePastWeek:
				values.Set("fromage", "7")
			case model.DatePastMonth:
				values.Set("fromage", "30")
			}
			if params.Sort == model.SortDate {
				values.Set("sort", "date")
			}
			return "https://www.indeed.com/jobs?" + values.Encode()
		},
		DetailURL: func(externalID string) string {
			return "https://www.indeed.com/viewjob?jk=" + externalID
		},
		Containers: []string{
			"div#mosaic-provider-jobcards",
			"ul.jobsearch-ResultsList",
			"td#resultsCol",
		},
		Item: []string{
			"div.job_seen_beacon",
			"a.tapItem",
			"div.result",
		},
		Title: []string{
			"h2.jobTitle span[title]",
			"h2.jobTitle a",
			"a.jobtitle",
		},
		Company: []string{
			"span.companyName",
			"[data-testid=company-name]",
			"span.company",
		},
		Location: []string{
			"div.companyLocation",
			"[data-testid=text-location]",
		},
		Salary: []string{
			"div.salary-snippet-container",
			"span.salary-snippet",
			"div.metadata.salary-snippet-container",
		},
		JobType: []string{
			"div.metadata.attribute_snippet",
		},
		Posted: []string{
			"span.date",
			"[data-testid=myJobsStateDate]",
		},
		Link: []string{
			"h2.jobTitle a",
			"a.jcs-JobTitle",
		},
		IDAttrs: []string{"data-jk"},
		DetailTitle: []string{
			"h1.jobsearch-JobInfoHeader-title",
			"h1[data-testid=jobsearch-JobInfoHeader-title]",
		},
		DetailCompany: []string{
			"div[data-testid=inlineHeader-companyName]",
			"div.jobsearch-CompanyInfoContainer a",
		},
		DetailDescription: []string{
			"div#jobDescriptionText",
		},
	}
}
