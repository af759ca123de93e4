package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot/internal/dtos"
	"github.com/applypilot/applypilot/internal/services"
)

// ResearchHandler is the AI-backed company research endpoint. It sits behind
// the rate-limit middleware; by the time Research runs the caller has
// already been charged and admitted.
type ResearchHandler struct {
	ResearchService *services.ResearchService
}

func NewResearchHandler(research *services.ResearchService) *ResearchHandler {
	return &ResearchHandler{ResearchService: research}
}

// Research is the POST /research endpoint.
func (h *ResearchHandler) Research(c *gin.Context) {
	var req dtos.ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	answer, cached, err := h.ResearchService.Research(c.Request.Context(), req.Company)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Research failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dtos.ResearchResponse{
		Success: true,
		Company: req.Company,
		Answer:  answer,
		Cached:  cached,
	})
}
