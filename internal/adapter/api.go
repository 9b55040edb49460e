package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avetisov/jobscout/internal/model"
)

const apiPageSize = 25

// APIAdapter retrieves listings from an authenticated Adzuna-style JSON
// search API. The registry only builds this adapter when credentials are
// configured; without them the source's chain skips the API entirely.
type APIAdapter struct {
	source  string
	baseURL string
	appID   string
	appKey  string
	country string
	client  *http.Client
}

// NewAPIAdapter creates an API adapter. appID and appKey must be non-empty.
func NewAPIAdapter(source, baseURL, appID, appKey, country string, client *http.Client) *APIAdapter {
	if country == "" {
		country = "us"
	}
	return &APIAdapter{
		source:  source,
		baseURL: baseURL,
		appID:   appID,
		appKey:  appKey,
		country: country,
		client:  client,
	}
}

// Kind implements model.PageFetcher.
func (a *APIAdapter) Kind() model.AdapterKind {
	return model.KindAPI
}

type apiSearchResponse struct {
	Count   int          `json:"count"`
	Results []apiPosting `json:"results"`
}

type apiPosting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Created     string `json:"created"`
	RedirectURL string `json:"redirect_url"`
	Contract    string `json:"contract_time"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	SalaryMin float64 `json:"salary_min"`
	SalaryMax float64 `json:"salary_max"`
}

// FetchPage queries one result page. The API is page-numbered, so the offset
// is translated into a 1-based page index.
func (a *APIAdapter) FetchPage(ctx context.Context, params model.SearchParams, offset int) ([]model.RawListing, error) {
	page := offset/apiPageSize + 1
	u := fmt.Sprintf("%s/v1/api/jobs/%s/search/%d?%s", a.baseURL, a.country, page, a.query(params).Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s api request: %w", a.source, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &model.NetworkError{Op: a.source + " api", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(a.source+" api", resp)
	}

	var payload apiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &model.ParseError{Source: a.source + " api", Err: err}
	}

	listings := make([]model.RawListing, 0, len(payload.Results))
	for _, p := range payload.Results {
		listings = append(listings, a.listingFromPosting(p))
	}
	return listings, nil
}

func (a *APIAdapter) query(params model.SearchParams) url.Values {
	values := url.Values{}
	values.Set("app_id", a.appID)
	values.Set("app_key", a.appKey)
	values.Set("what", params.Query)
	values.Set("results_per_page", strconv.Itoa(apiPageSize))

	if params.Location != "" {
		values.Set("where", params.Location)
	} else if params.Remote {
		values.Set("where", "Remote")
	}

	switch params.JobType {
	case model.JobTypeFullTime:
		values.Set("full_time", "1")
	case model.JobTypePartTime:
		values.Set("part_time", "1")
	case model.JobTypeContract, model.JobTypeTemporary:
		values.Set("contract", "1")
	}

	switch params.DatePosted {
	case model.DatePastDay:
		values.Set("max_days_old", "1")
	case model.DatePastWeek:
		values.Set("max_days_old", "7")
	case model.DatePastMonth:
		values.Set("max_days_old", "30")
	}

	if params.Sort == model.SortDate {
		values.Set("sort_by", "date")
	}

	return values
}

func (a *APIAdapter) listingFromPosting(p apiPosting) model.RawListing {
	externalID := p.ID
	if externalID == "" {
		externalID = hashID(p.RedirectURL)
	}

	return model.RawListing{
		Source:      a.source,
		ExternalID:  externalID,
		Title:       p.Title,
		Company:     p.Company.DisplayName,
		Location:    p.Location.DisplayName,
		Description: extractText(p.Description),
		Salary:      formatSalary(p.SalaryMin, p.SalaryMax),
		JobType:     p.Contract,
		URL:         p.RedirectURL,
		Posted:      p.Created,
	}
}

// formatSalary renders the API's numeric salary band as a display string.
// Returns empty when the source provided no salary data.
func formatSalary(min, max float64) string {
	switch {
	case min > 0 && max > 0 && min != max:
		return fmt.Sprintf("$%.0f - $%.0f", min, max)
	case min > 0:
		return fmt.Sprintf("$%.0f", min)
	case max > 0:
		return fmt.Sprintf("$%.0f", max)
	default:
		return ""
	}
}
