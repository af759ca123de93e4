package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// MaybeRedis connects when a URL is configured, otherwise returns nil so the
// research cache degrades to a no-op. A failed connection is logged, not
// fatal — the cache is an optimization, not a dependency.
func MaybeRedis(ctx context.Context, redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("[cache] REDIS_URL not set — research cache disabled")
		return nil
	}

	client, err := NewRedisClient(ctx, redisURL)
	if err != nil {
		log.Printf("[cache] redis unavailable (%v) — research cache disabled", err)
		return nil
	}

	log.Println("[cache] Redis connected")
	return client
}
