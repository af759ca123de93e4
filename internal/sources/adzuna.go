package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 3 // max 150 results per (keyword × location) pair
)

// AdzunaSource fetches job offers from the Adzuna public API.
type AdzunaSource struct {
	appID   string
	appKey  string
	country string // "us", "gb", "fr", …
	client  *http.Client
	baseURL string
}

// NewAdzunaSource constructs the source with a shared HTTP client.
func NewAdzunaSource(appID, appKey, country string, client *http.Client) *AdzunaSource {
	return &AdzunaSource{
		appID:   appID,
		appKey:  appKey,
		country: country,
		client:  client,
		baseURL: adzunaBaseURL,
	}
}

func (s *AdzunaSource) Name() string { return "adzuna" }

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Fetch retrieves all available offers for the keyword set and location,
// iterating through pages until no more results or adzunaMaxPages is reached.
func (s *AdzunaSource) Fetch(ctx context.Context, keywords []string, location string) ([]RawListing, error) {
	var results []RawListing

	for page := 1; page <= adzunaMaxPages; page++ {
		batch, err := s.fetchPage(ctx, strings.Join(keywords, " "), location, page)
		if err != nil {
			return nil, fmt.Errorf("adzuna page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break // no more results
		}
		results = append(results, batch...)
		if len(batch) < adzunaPageSize {
			break // last page
		}
	}

	return results, nil
}

func (s *AdzunaSource) fetchPage(ctx context.Context, what, where string, page int) ([]RawListing, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", s.baseURL, s.country, page)

	params := url.Values{}
	params.Set("app_id", s.appID)
	params.Set("app_key", s.appKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", what)
	params.Set("where", where)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http GET: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: adzuna returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}

	results := make([]RawListing, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		results = append(results, RawListing{
			ExternalID:  r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Description: r.Description,
			URL:         r.RedirectURL,
			Salary:      formatSalaryRange(r.SalaryMin, r.SalaryMax),
			PostedAt:    r.Created,
		})
	}

	return results, nil
}

// formatSalaryRange renders Adzuna's numeric bounds as a display string.
// Both bounds zero means the posting did not state a salary.
func formatSalaryRange(min, max float64) string {
	switch {
	case min > 0 && max > 0 && min != max:
		return fmt.Sprintf("%.0f - %.0f", min, max)
	case max > 0:
		return fmt.Sprintf("%.0f", max)
	case min > 0:
		return fmt.Sprintf("%.0f", min)
	default:
		return ""
	}
}
