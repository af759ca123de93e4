package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/internal/models"
	"github.com/applypilot/applypilot/internal/services"
	"github.com/applypilot/applypilot/internal/sources"
)

func sourced(src, extID, title, company, location, url string) services.SourcedListing {
	return services.SourcedListing{
		Source: src,
		RawListing: sources.RawListing{
			ExternalID: extID,
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        url,
		},
	}
}

func TestNormalizeBatchDedupByExternalID(t *testing.T) {
	now := time.Now()
	raw := []services.SourcedListing{
		sourced("adzuna", "j-1", "Backend Engineer", "Acme", "Berlin", "https://a.example/1"),
		sourced("adzuna", "j-1", "Backend Engineer (updated)", "Acme", "Berlin", "https://a.example/1b"),
	}

	unique, dropped := services.NormalizeBatch(raw, now)

	require.Len(t, unique, 1)
	assert.Equal(t, 1, dropped.Duplicates)
	// first occurrence wins
	assert.Equal(t, "Backend Engineer", unique[0].Title)
}

func TestNormalizeBatchFallbackCollision(t *testing.T) {
	// Same normalized title+company+location, different URLs, no provider
	// ids: collapses to one record. Known over-merge trade-off.
	now := time.Now()
	raw := []services.SourcedListing{
		sourced("jooble", "", "Data  Engineer", "Initech", "Remote", "https://a.example/x"),
		sourced("remotive", "", "data engineer", "INITECH", "remote", "https://b.example/y"),
	}

	unique, dropped := services.NormalizeBatch(raw, now)

	require.Len(t, unique, 1)
	assert.Equal(t, 1, dropped.Duplicates)
	assert.Equal(t, "https://a.example/x", unique[0].URL)
}

func TestNormalizeBatchDeterministic(t *testing.T) {
	now := time.Now()
	raw := []services.SourcedListing{
		sourced("adzuna", "1", "A", "X", "L1", "u1"),
		sourced("adzuna", "2", "B", "Y", "L1", "u2"),
		sourced("adzuna", "1", "A dup", "X", "L1", "u3"),
		sourced("jooble", "", "C", "Z", "L2", "u4"),
	}

	first, firstDrops := services.NormalizeBatch(raw, now)
	second, secondDrops := services.NormalizeBatch(raw, now)

	require.Equal(t, firstDrops, secondDrops)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Fingerprint, second[i].Fingerprint)
		assert.Equal(t, first[i].Title, second[i].Title)
	}
}

func TestNormalizeBatchDropsUnidentifiable(t *testing.T) {
	now := time.Now()
	raw := []services.SourcedListing{
		sourced("adzuna", "", "", "", "Berlin", ""),                // no title, no company
		sourced("adzuna", "", "", "", "", "https://a.example/bad"), // URL-only
		sourced("adzuna", "ok-1", "Real Job", "Acme", "Berlin", "https://a.example/ok"),
	}

	unique, dropped := services.NormalizeBatch(raw, now)

	require.Len(t, unique, 1)
	assert.Equal(t, 2, dropped.Malformed)
	assert.Equal(t, 0, dropped.Duplicates)
}

func TestNormalizeBatchAssignsExpiryAndSalary(t *testing.T) {
	now := time.Now()
	withSalary := sourced("adzuna", "s-1", "Engineer", "Acme", "Berlin", "u")
	withSalary.Salary = " 90000 - 120000 "
	noSalary := sourced("adzuna", "s-2", "Engineer II", "Acme", "Berlin", "u2")

	unique, _ := services.NormalizeBatch([]services.SourcedListing{withSalary, noSalary}, now)
	require.Len(t, unique, 2)

	assert.Equal(t, now, unique[0].ScrapedAt)
	assert.Equal(t, now.Add(models.ListingTTL), unique[0].ExpiresAt)

	require.NotNil(t, unique[0].Salary)
	assert.Equal(t, "90000 - 120000", *unique[0].Salary)
	assert.Nil(t, unique[1].Salary)
}

func TestNormalizeBatchKeepsDisplayCasing(t *testing.T) {
	now := time.Now()
	raw := []services.SourcedListing{
		sourced("adzuna", "", "Senior Gopher", "ACME GmbH", "Berlin", "u"),
	}

	unique, _ := services.NormalizeBatch(raw, now)
	require.Len(t, unique, 1)
	assert.Equal(t, "Senior Gopher", unique[0].Title)
	assert.Equal(t, "ACME GmbH", unique[0].Company)
}

func TestFingerprintPrefersExternalID(t *testing.T) {
	withID := services.Fingerprint("adzuna", "123", "T", "C", "L")
	assert.Equal(t, "adzuna|123", withID)

	// Same text fields, different sources: fallback hashes only the text,
	// so cross-source rediscoveries of the same posting collapse.
	a := services.Fingerprint("adzuna", "", "Title", "Comp", "Loc")
	b := services.Fingerprint("jooble", "", "  title ", "COMP", "loc")
	assert.Equal(t, a, b)

	c := services.Fingerprint("adzuna", "", "Other Title", "Comp", "Loc")
	assert.NotEqual(t, a, c)
}
