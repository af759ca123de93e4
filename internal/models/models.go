package models

import (
	"time"
)

// ListingTTL is how long a scraped listing stays active before it is
// considered stale. Rediscovery during a later sweep renews the window.
const ListingTTL = 14 * 24 * time.Hour

// JobListing is one normalized job offer persisted from an ingestion sweep.
//
// Uniqueness is enforced on Fingerprint: "source|externalID" when the
// provider supplies a stable id, otherwise a hash of the normalized
// title+company+location. Rows past ExpiresAt are excluded from active
// queries rather than deleted.
type JobListing struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string  `gorm:"not null" json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `gorm:"type:text" json:"description"`
	URL         string  `json:"url"`
	Source      string  `gorm:"index;not null" json:"source"`
	ExternalID  string  `json:"external_id,omitempty"`
	Salary      *string `json:"salary,omitempty"`

	Keywords []string `gorm:"serializer:json" json:"keywords,omitempty"`

	Fingerprint string    `gorm:"uniqueIndex;not null" json:"-"`
	ScrapedAt   time.Time `json:"scraped_at"`
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`
}

// Active reports whether the listing is still inside its TTL window.
func (j *JobListing) Active(now time.Time) bool {
	return j.ExpiresAt.After(now)
}
