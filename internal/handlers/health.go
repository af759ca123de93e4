package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck is the GET /health endpoint.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "applypilot-api",
	})
}
