// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the API server.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string // optional — research cache is a no-op without it

	// Shared secret the external cron scheduler sends on the ingest trigger.
	IngestSecret string

	// Gemini key for the company-research route. Empty disables the route.
	GeminiAPIKey string

	// Adzuna credentials. Empty disables the Adzuna source.
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string // e.g. "us", "gb", "fr"

	// Jooble API key. Empty disables the Jooble source.
	JoobleAPIKey string

	Sources   []string // enabled source names, in dedup-priority order
	Locations []string // default sweep locations
	Keywords  []string // search keywords per (source × location) pair

	IngestConcurrency int
	IngestRunTimeout  time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	secret := os.Getenv("INGEST_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("INGEST_SECRET is required")
	}

	concurrency, err := getInt("INGEST_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	runTimeout, err := getDuration("INGEST_RUN_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	rlMax, err := getInt("RATE_LIMIT_MAX", 20)
	if err != nil {
		return nil, err
	}

	rlWindow, err := getDuration("RATE_LIMIT_WINDOW", time.Hour)
	if err != nil {
		return nil, err
	}

	country := os.Getenv("ADZUNA_COUNTRY")
	if country == "" {
		country = "us"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          os.Getenv("REDIS_URL"),
		IngestSecret:      secret,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		AdzunaAppID:       os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:      os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry:     country,
		JoobleAPIKey:      os.Getenv("JOOBLE_API_KEY"),
		Sources:           splitAndTrim(getEnv("SOURCES", "adzuna,jooble,remotive")),
		Locations:         splitAndTrim(getEnv("LOCATIONS", "Remote")),
		Keywords:          splitAndTrim(getEnv("KEYWORDS", "software engineer")),
		IngestConcurrency: concurrency,
		IngestRunTimeout:  runTimeout,
		RateLimitMax:      rlMax,
		RateLimitWindow:   rlWindow,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, s)
	}
	return d, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
