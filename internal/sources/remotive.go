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
	remotiveBaseURL = "https://remotive.com/api/remote-jobs"
	remotiveLimit   = 100
)

// RemotiveSource fetches remote-only job offers from the public Remotive API.
// Remotive has no location parameter — every posting is remote — so the
// requested location only narrows results client-side when it isn't "Remote".
type RemotiveSource struct {
	client  *http.Client
	baseURL string
}

// NewRemotiveSource constructs the source with a shared HTTP client.
// Remotive needs no credentials.
func NewRemotiveSource(client *http.Client) *RemotiveSource {
	return &RemotiveSource{client: client, baseURL: remotiveBaseURL}
}

func (s *RemotiveSource) Name() string { return "remotive" }

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID              int64  `json:"id"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	Location        string `json:"candidate_required_location"`
	Salary          string `json:"salary"`
	Description     string `json:"description"`
	PublicationDate string `json:"publication_date"`
}

// Fetch queries the remote-jobs search endpoint for the keyword set.
func (s *RemotiveSource) Fetch(ctx context.Context, keywords []string, location string) ([]RawListing, error) {
	params := url.Values{}
	params.Set("search", strings.Join(keywords, " "))
	params.Set("limit", strconv.Itoa(remotiveLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
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
		return nil, fmt.Errorf("%w: remotive returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var apiResp remotiveResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}

	wantLocation := strings.ToLower(strings.TrimSpace(location))
	results := make([]RawListing, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		if wantLocation != "" && wantLocation != "remote" &&
			!strings.Contains(strings.ToLower(j.Location), wantLocation) {
			continue
		}
		listing := RawListing{
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    j.Location,
			Description: j.Description,
			URL:         j.URL,
			Salary:      j.Salary,
			PostedAt:    j.PublicationDate,
		}
		if j.ID != 0 {
			listing.ExternalID = strconv.FormatInt(j.ID, 10)
		}
		if listing.Location == "" {
			listing.Location = "Remote"
		}
		results = append(results, listing)
	}

	return results, nil
}
