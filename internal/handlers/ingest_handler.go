package handlers

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot/internal/dtos"
	"github.com/applypilot/applypilot/internal/services"
)

// IngestHandler exposes the sweep trigger invoked by the external cron
// scheduler. It is guarded by a shared-secret bearer header, not by user
// sessions.
type IngestHandler struct {
	IngestService *services.IngestService
	Secret        string
}

func NewIngestHandler(ingest *services.IngestService, secret string) *IngestHandler {
	return &IngestHandler{IngestService: ingest, Secret: secret}
}

// Trigger is the POST /ingest/trigger endpoint. The optional body overrides
// the configured sweep locations for this run only.
func (h *IngestHandler) Trigger(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var req dtos.IngestTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON format: " + err.Error()})
		return
	}

	result := h.IngestService.Run(c.Request.Context(), req.Locations)

	c.JSON(http.StatusOK, dtos.IngestTriggerResponse{
		Success: true,
		Results: result,
	})
}

func (h *IngestHandler) authorized(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) == 1
}
