package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const joobleBaseURL = "https://jooble.org/api"

// JoobleSource fetches job offers from the Jooble search API.
// Jooble takes the API key as a path segment and the query as a JSON body.
type JoobleSource struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

// NewJoobleSource constructs the source with a shared HTTP client.
func NewJoobleSource(apiKey string, client *http.Client) *JoobleSource {
	return &JoobleSource{apiKey: apiKey, client: client, baseURL: joobleBaseURL}
}

func (s *JoobleSource) Name() string { return "jooble" }

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
}

type joobleResponse struct {
	TotalCount int         `json:"totalCount"`
	Jobs       []joobleJob `json:"jobs"`
}

type joobleJob struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Snippet  string `json:"snippet"`
	Salary   string `json:"salary"`
	Link     string `json:"link"`
	Company  string `json:"company"`
	Updated  string `json:"updated"`
}

// Fetch posts a keyword/location search and maps the result page.
func (s *JoobleSource) Fetch(ctx context.Context, keywords []string, location string) ([]RawListing, error) {
	payload, err := json.Marshal(joobleRequest{
		Keywords: strings.Join(keywords, " "),
		Location: location,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/"+s.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http POST: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: jooble returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var apiResp joobleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}

	results := make([]RawListing, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		var externalID string
		if j.ID != 0 {
			externalID = strconv.FormatInt(j.ID, 10)
		}
		results = append(results, RawListing{
			ExternalID:  externalID,
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			Description: j.Snippet,
			URL:         j.Link,
			Salary:      j.Salary,
			PostedAt:    j.Updated,
		})
	}

	return results, nil
}
