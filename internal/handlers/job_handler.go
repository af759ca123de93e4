package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot/internal/dtos"
	"github.com/applypilot/applypilot/internal/services"
)

// JobHandler serves the read side of the job feed.
type JobHandler struct {
	ListingService *services.ListingService
}

func NewJobHandler(listings *services.ListingService) *JobHandler {
	return &JobHandler{ListingService: listings}
}

// ListJobs is the GET /jobs endpoint. Only listings inside their TTL window
// are returned; expired rows stay in the table but never surface here.
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	filter := dtos.JobListFilter{
		Source:   c.Query("source"),
		Location: c.Query("location"),
		Keyword:  c.Query("q"),
		Limit:    limit,
	}

	listings, err := h.ListingService.ListActive(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(listings),
		"jobs":    listings,
	})
}
