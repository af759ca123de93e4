// Package sources implements the external job-board clients used by the
// ingestion sweep. Each provider is stateless and safe to call concurrently
// for different (keyword × location) pairs.
package sources

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// httpTimeout bounds every outbound provider call.
const httpTimeout = 15 * time.Second

// ErrSourceUnavailable marks a transient provider failure: timeout, network
// error, or a non-2xx response. The orchestrator tallies it and moves on.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrSourceMalformed marks a provider response whose shape could not be
// decoded. Logged with the provider name for diagnosis, then skipped.
var ErrSourceMalformed = errors.New("source returned malformed payload")

// RawListing is one job offer as reported by a provider, before
// normalization and dedup.
type RawListing struct {
	ExternalID  string
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Salary      string
	PostedAt    string
}

// Source is a single external job-board provider. Fetch returns every offer
// for the keyword set and location; zero results is success, not an error.
type Source interface {
	Name() string
	Fetch(ctx context.Context, keywords []string, location string) ([]RawListing, error)
}

// Credentials carries the per-provider API keys. A provider with missing
// credentials is left out of the enabled list.
type Credentials struct {
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string
	JoobleAPIKey  string
}

// Enabled builds the source list for the given names, in order. The order is
// load-bearing: it is the dedup priority — when the same job appears in two
// sources, the earlier-listed source's record wins.
func Enabled(names []string, creds Credentials) []Source {
	client := &http.Client{Timeout: httpTimeout}

	var out []Source
	for _, name := range names {
		switch name {
		case "adzuna":
			if creds.AdzunaAppID != "" && creds.AdzunaAppKey != "" {
				out = append(out, NewAdzunaSource(creds.AdzunaAppID, creds.AdzunaAppKey, creds.AdzunaCountry, client))
			}
		case "jooble":
			if creds.JoobleAPIKey != "" {
				out = append(out, NewJoobleSource(creds.JoobleAPIKey, client))
			}
		case "remotive":
			out = append(out, NewRemotiveSource(client))
		}
	}
	return out
}
