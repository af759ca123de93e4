package services

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/applypilot/applypilot/internal/models"
	"github.com/applypilot/applypilot/internal/sources"
)

const (
	keywordLimit  = 8
	keywordMinLen = 4
)

var whitespace = regexp.MustCompile(`\s+`)

var stopwords = map[string]struct{}{
	"with": {}, "this": {}, "that": {}, "your": {}, "from": {}, "will": {},
	"have": {}, "work": {}, "team": {}, "role": {}, "their": {}, "about": {},
	"more": {}, "they": {}, "them": {}, "were": {}, "been": {}, "into": {},
}

// SourcedListing is a raw provider record tagged with the source it came
// from. The orchestrator builds these in fixed pair order before dedup.
type SourcedListing struct {
	sources.RawListing
	Source string
}

// DropTally counts records removed during normalization.
type DropTally struct {
	Duplicates int
	Malformed  int // URL-only and unidentifiable records
}

// Fingerprint derives the uniqueness key for a listing. Providers with a
// stable id get "source|externalID"; everything else falls back to a hash of
// the lowercased, whitespace-collapsed title+company+location. The fallback
// can over-merge distinct postings with identical text — accepted trade-off.
func Fingerprint(source, externalID, title, company, location string) string {
	if externalID != "" {
		return source + "|" + externalID
	}
	key := normalizeForCompare(title) + "|" + normalizeForCompare(company) + "|" + normalizeForCompare(location)
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// NormalizeBatch turns the concatenated provider output of one sweep into
// deduplicated candidate listings ready for storage.
//
// First occurrence per fingerprint wins, so the caller's ordering (fixed
// source-major pair order) decides which source's detail survives when the
// same job shows up twice. Original casing is kept for display; lowercasing
// happens only inside the fingerprint.
func NormalizeBatch(raw []SourcedListing, now time.Time) ([]models.JobListing, DropTally) {
	var tally DropTally
	seen := make(map[string]struct{}, len(raw))
	out := make([]models.JobListing, 0, len(raw))

	expiresAt := now.Add(models.ListingTTL)

	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		company := strings.TrimSpace(r.Company)
		location := strings.TrimSpace(r.Location)

		// Unidentifiable or URL-only records can't be stored meaningfully.
		if title == "" && company == "" {
			tally.Malformed++
			continue
		}

		fp := Fingerprint(r.Source, strings.TrimSpace(r.ExternalID), title, company, location)
		if _, dup := seen[fp]; dup {
			tally.Duplicates++
			continue
		}
		seen[fp] = struct{}{}

		var salary *string
		if s := strings.TrimSpace(r.Salary); s != "" {
			salary = &s
		}

		out = append(out, models.JobListing{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: strings.TrimSpace(r.Description),
			URL:         strings.TrimSpace(r.URL),
			Source:      r.Source,
			ExternalID:  strings.TrimSpace(r.ExternalID),
			Salary:      salary,
			Keywords:    extractKeywords(title + " " + r.Description),
			Fingerprint: fp,
			ScrapedAt:   now,
			ExpiresAt:   expiresAt,
		})
	}

	return out, tally
}

func normalizeForCompare(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// extractKeywords returns the most frequent non-stopword tokens of the text.
func extractKeywords(text string) []string {
	freq := make(map[string]int)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:()[]{}<>\"'!?/")
		if len(token) < keywordMinLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}
	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}
	pairs := make([]kv, 0, len(freq))
	for w, c := range freq {
		pairs = append(pairs, kv{word: w, count: c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	max := keywordLimit
	if max > len(pairs) {
		max = len(pairs)
	}
	keywords := make([]string, 0, max)
	for i := 0; i < max; i++ {
		keywords = append(keywords, pairs[i].word)
	}
	return keywords
}
