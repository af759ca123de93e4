package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/internal/dtos"
	"github.com/applypilot/applypilot/internal/handlers"
	"github.com/applypilot/applypilot/internal/models"
	"github.com/applypilot/applypilot/internal/services"
	"github.com/applypilot/applypilot/internal/sources"
)

type nopStore struct{}

func (nopStore) UpsertBatch(_ context.Context, listings []models.JobListing) services.UpsertTally {
	return services.UpsertTally{Inserted: len(listings)}
}

func newTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := services.NewIngestService(
		[]sources.Source{}, nopStore{}, []string{"go"}, []string{"Berlin", "Paris"}, 1, time.Minute,
	)
	h := handlers.NewIngestHandler(svc, secret)

	r := gin.New()
	r.POST("/api/v1/ingest/trigger", h.Trigger)
	return r
}

func trigger(r *gin.Engine, auth, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/trigger", reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestTriggerRejectsMissingSecret(t *testing.T) {
	r := newTestRouter("sweep-secret")

	w := trigger(r, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestTriggerRejectsWrongSecret(t *testing.T) {
	r := newTestRouter("sweep-secret")

	assert.Equal(t, http.StatusUnauthorized, trigger(r, "Bearer wrong", "").Code)
	// A bare token without the Bearer prefix is also rejected.
	assert.Equal(t, http.StatusUnauthorized, trigger(r, "sweep-secret", "").Code)
}

func TestTriggerAcceptsSecretEmptyBody(t *testing.T) {
	r := newTestRouter("sweep-secret")

	w := trigger(r, "Bearer sweep-secret", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dtos.IngestTriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Results)
	assert.Equal(t, 2, resp.Results.Locations) // configured default
	assert.NotEmpty(t, resp.Results.RunID)
}

func TestTriggerLocationOverride(t *testing.T) {
	r := newTestRouter("sweep-secret")

	w := trigger(r, "Bearer sweep-secret", `{"locations": ["Tokyo", "Osaka", "Kyoto"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dtos.IngestTriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Results.Locations)
}

func TestTriggerRejectsInvalidBody(t *testing.T) {
	r := newTestRouter("sweep-secret")

	w := trigger(r, "Bearer sweep-secret", `{"locations": "not-a-list"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
