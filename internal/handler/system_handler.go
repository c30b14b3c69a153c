package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nps-explorer/internal/logging"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the liveness and health endpoints
type SystemHandler struct {
	store Pinger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(store Pinger) *SystemHandler {
	return &SystemHandler{store: store}
}

// Root handles GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"project":     "NPS Explorer",
		"description": "NPS parks, visitor centers, and events (10 selected parks).",
		"status":      "backend running",
	})
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
