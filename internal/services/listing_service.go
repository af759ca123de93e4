package services

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/applypilot/applypilot/internal/dtos"
	"github.com/applypilot/applypilot/internal/models"
)

const defaultListLimit = 50

// UpsertTally is the per-record outcome of one stored batch.
type UpsertTally struct {
	Inserted int // new row
	Renewed  int // fingerprint already present, expiry extended
	Errored  int // storage fault, recorded and skipped
}

// ListingService persists deduplicated listings and serves the read side.
type ListingService struct {
	DB *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{DB: db}
}

// UpsertBatch stores each candidate independently: insert when the
// fingerprint is new, renew the expiry when it already exists. A single
// record's failure never aborts the rest of the batch — concurrent sweeps
// race on the unique index, and the conflict path is the expected outcome,
// not an error.
func (s *ListingService) UpsertBatch(ctx context.Context, listings []models.JobListing) UpsertTally {
	var tally UpsertTally

	for i := range listings {
		listing := listings[i]

		res := s.DB.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "fingerprint"}},
				DoNothing: true,
			}).
			Create(&listing)
		if res.Error != nil {
			log.Printf("[store] insert error for %q @ %q: %v", listing.Title, listing.Company, res.Error)
			tally.Errored++
			continue
		}

		if res.RowsAffected > 0 {
			tally.Inserted++
			continue
		}

		// Rediscovered: extend the TTL window instead of inserting a twin.
		renew := s.DB.WithContext(ctx).
			Model(&models.JobListing{}).
			Where("fingerprint = ?", listing.Fingerprint).
			Updates(map[string]interface{}{
				"scraped_at": listing.ScrapedAt,
				"expires_at": listing.ExpiresAt,
			})
		if renew.Error != nil {
			log.Printf("[store] renew error for fingerprint %s: %v", listing.Fingerprint, renew.Error)
			tally.Errored++
			continue
		}
		tally.Renewed++
	}

	return tally
}

// ListActive returns listings still inside their TTL window, newest first.
func (s *ListingService) ListActive(ctx context.Context, filter dtos.JobListFilter) ([]models.JobListing, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	q := s.DB.WithContext(ctx).
		Model(&models.JobListing{}).
		Where("expires_at > ?", time.Now()).
		Order("scraped_at DESC").
		Limit(limit)

	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.Keyword != "" {
		kw := "%" + strings.ToLower(filter.Keyword) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", kw, kw)
	}

	var listings []models.JobListing
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}
