package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// researchCacheTTL bounds how long an identical company query is answered
// from cache instead of hitting the AI provider again.
const researchCacheTTL = 24 * time.Hour

const companyResearchPrompt = `
You are a career research assistant helping a job applicant prepare for an application.

### TASK:
Produce a concise briefing on the company below.

### COVER:
1. What the company does and who its customers are.
2. Approximate size and main locations.
3. Recent news or product launches worth mentioning in a cover letter.
4. Engineering culture signals, if any are publicly known.

### CONSTRAINT:
If you are not confident about a fact, say so. Do not invent funding rounds, headcounts, or news.

### COMPANY:
%s
`

// ResearchService answers company-research queries through the AI provider,
// with a cache in front so repeated identical queries short-circuit before
// the expensive call.
type ResearchService struct {
	Client llms.Model
	Cache  *redis.Client // nil disables caching
}

// NewResearchService initializes the Gemini client. The redis client may be
// nil; the service then always goes to the provider.
func NewResearchService(ctx context.Context, apiKey string, cacheClient *redis.Client) (*ResearchService, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel("gemini-2.5-flash"),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &ResearchService{Client: llm, Cache: cacheClient}, nil
}

// Research returns a company briefing, serving repeats from cache.
func (s *ResearchService) Research(ctx context.Context, company string) (answer string, cached bool, err error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return "", false, fmt.Errorf("company is required")
	}

	key := cacheKey(company)

	if s.Cache != nil {
		if hit, getErr := s.Cache.Get(ctx, key).Result(); getErr == nil {
			return hit, true, nil
		} else if getErr != redis.Nil {
			log.Printf("[research] cache get failed: %v", getErr)
		}
	}

	prompt := fmt.Sprintf(companyResearchPrompt, company)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", false, fmt.Errorf("ai generation: %w", err)
	}

	if s.Cache != nil {
		if setErr := s.Cache.Set(ctx, key, resp, researchCacheTTL).Err(); setErr != nil {
			log.Printf("[research] cache set failed: %v", setErr)
		}
	}

	return resp, false, nil
}

func cacheKey(company string) string {
	sum := sha256.Sum256([]byte("research:" + strings.ToLower(company)))
	return "research:" + hex.EncodeToString(sum[:])
}
