package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Health handles GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storefront-service",
	})
}

// Ready handles GET /ready.
func (h *Handlers) Ready(c *gin.Context) {
	// TODO(TEAM-PLATFORM): Add actual readiness checks (DB, Redis, Kafka)
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "storefront-service",
	})
}

// Live handles GET /live.
func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Version handles GET /version.
func (h *Handlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    "1.0.0",
		"service":    "storefront-service",
		"go_version": runtime.Version(),
		"built_at":   startTime.Format(time.RFC3339),
	})
}
