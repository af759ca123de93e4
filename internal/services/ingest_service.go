package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/applypilot/applypilot/internal/dtos"
	"github.com/applypilot/applypilot/internal/models"
	"github.com/applypilot/applypilot/internal/sources"
)

// ListingStore is the persistence boundary the orchestrator commits to.
type ListingStore interface {
	UpsertBatch(ctx context.Context, listings []models.JobListing) UpsertTally
}

// IngestService runs one sweep: every enabled source × every target
// location, concurrently, then dedup and a bulk upsert. One invocation per
// external cron trigger — no scheduling of its own.
type IngestService struct {
	Sources     []sources.Source
	Store       ListingStore
	Keywords    []string
	Locations   []string
	Concurrency int
	RunTimeout  time.Duration

	now func() time.Time // injectable clock for tests
}

func NewIngestService(
	srcs []sources.Source,
	store ListingStore,
	keywords, locations []string,
	concurrency int,
	runTimeout time.Duration,
) *IngestService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &IngestService{
		Sources:     srcs,
		Store:       store,
		Keywords:    keywords,
		Locations:   locations,
		Concurrency: concurrency,
		RunTimeout:  runTimeout,
		now:         time.Now,
	}
}

type pair struct {
	source   sources.Source
	location string
}

// Run executes one sweep. Individual pair failures are tallied and logged,
// never fatal: flaky providers are the steady state. When the run deadline
// expires, in-flight pairs are cancelled and the run finalizes as partial
// with whatever completed.
func (s *IngestService) Run(ctx context.Context, locationOverride []string) *dtos.IngestionResult {
	start := s.now()

	locations := s.Locations
	if len(locationOverride) > 0 {
		locations = locationOverride
	}

	result := &dtos.IngestionResult{
		RunID:     uuid.NewString(),
		Locations: len(locations),
	}

	// Source-major pair order. Slot-indexed results keep dedup priority
	// deterministic no matter which fetch finishes first.
	var pairs []pair
	for _, src := range s.Sources {
		for _, loc := range locations {
			pairs = append(pairs, pair{source: src, location: loc})
		}
	}

	log.Printf("[ingest] run %s starting: %d source(s) x %d location(s)",
		result.RunID, len(s.Sources), len(locations))

	runCtx, cancel := context.WithTimeout(ctx, s.RunTimeout)
	defer cancel()

	batches := make([][]sources.RawListing, len(pairs))
	failures := make([]error, len(pairs))

	g := new(errgroup.Group)
	g.SetLimit(s.Concurrency)
	for i, p := range pairs {
		g.Go(func() error {
			listings, err := p.source.Fetch(runCtx, s.Keywords, p.location)
			if err != nil {
				log.Printf("[ingest] %s (%q): %v — continuing", p.source.Name(), p.location, err)
				failures[i] = err
				return nil
			}
			batches[i] = listings
			return nil
		})
	}
	_ = g.Wait()

	if runCtx.Err() != nil {
		result.Partial = true
		log.Printf("[ingest] run %s hit the %s deadline — finalizing with completed pairs",
			result.RunID, s.RunTimeout)
	}

	var raw []SourcedListing
	for i, batch := range batches {
		if failures[i] != nil {
			result.Errors++
			continue
		}
		for _, r := range batch {
			raw = append(raw, SourcedListing{RawListing: r, Source: pairs[i].source.Name()})
		}
	}
	result.Downloaded = len(raw)

	unique, dropped := NormalizeBatch(raw, start)
	result.Unique = len(unique)
	result.Duplicates = dropped.Duplicates
	result.Malformed = dropped.Malformed

	// Commit on the caller's context: the run deadline bounds fetching,
	// not the final write of what it already gathered.
	tally := s.Store.UpsertBatch(ctx, unique)
	result.Inserted = tally.Inserted
	result.Renewed = tally.Renewed
	result.Errors += tally.Errored

	result.DurationMS = s.now().Sub(start).Milliseconds()

	log.Printf("[ingest] run %s done — downloaded=%d unique=%d inserted=%d renewed=%d errors=%d partial=%v",
		result.RunID, result.Downloaded, result.Unique, result.Inserted,
		result.Renewed, result.Errors, result.Partial)

	return result
}
