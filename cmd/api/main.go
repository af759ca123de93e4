package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/applypilot/applypilot/internal/cache"
	"github.com/applypilot/applypilot/internal/config"
	"github.com/applypilot/applypilot/internal/database"
	"github.com/applypilot/applypilot/internal/handlers"
	"github.com/applypilot/applypilot/internal/middleware"
	"github.com/applypilot/applypilot/internal/services"
	"github.com/applypilot/applypilot/internal/sources"
)

func main() {
	// 1. Load Environment Variables (.env is optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}

	ctx := context.Background()

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Database error: ", err)
	}

	// 3. Redis (optional) — backs the research cache
	redisClient := cache.MaybeRedis(ctx, cfg.RedisURL)

	// 4. Source Clients — order here is dedup priority
	enabledSources := sources.Enabled(cfg.Sources, sources.Credentials{
		AdzunaAppID:   cfg.AdzunaAppID,
		AdzunaAppKey:  cfg.AdzunaAppKey,
		AdzunaCountry: cfg.AdzunaCountry,
		JoobleAPIKey:  cfg.JoobleAPIKey,
	})
	if len(enabledSources) == 0 {
		log.Println("⚠️  No job sources enabled — check SOURCES and provider credentials")
	}

	// 5. Core Services
	listingService := services.NewListingService(db)
	ingestService := services.NewIngestService(
		enabledSources,
		listingService,
		cfg.Keywords,
		cfg.Locations,
		cfg.IngestConcurrency,
		cfg.IngestRunTimeout,
	)

	// 6. Rate limiter — one process-wide instance, injected into routes
	limiter := middleware.NewLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	// 7. Handlers
	ingestHandler := handlers.NewIngestHandler(ingestService, cfg.IngestSecret)
	jobHandler := handlers.NewJobHandler(listingService)

	var researchHandler *handlers.ResearchHandler
	if cfg.GeminiAPIKey != "" {
		researchService, rerr := services.NewResearchService(ctx, cfg.GeminiAPIKey, redisClient)
		if rerr != nil {
			log.Fatal("Failed to create research service: ", rerr)
		}
		researchHandler = handlers.NewResearchHandler(researchService)
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set — research route disabled")
	}

	// 8. Router & CORS
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(500, gin.H{"success": false, "error": "internal server error"})
	}))
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Session-User"}
	r.Use(cors.New(corsConfig))
	r.Use(middleware.SessionIdentity())

	// 9. Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		// Job feed
		api.GET("/jobs", jobHandler.ListJobs)

		// Ingestion trigger (called by the external cron scheduler)
		api.POST("/ingest/trigger", ingestHandler.Trigger)

		// AI-backed routes sit behind the rate limiter
		if researchHandler != nil {
			api.POST("/research",
				middleware.RateLimit(limiter, "company-research"),
				researchHandler.Research,
			)
		}
	}

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
