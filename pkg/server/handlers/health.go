package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avatarworks/mouthpiece/pkg/avatar"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	client *avatar.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(client *avatar.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "mouthpiece",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ProviderHealth handles GET /health/providers - live probes against every
// configured provider. Probe failures are reported in the body, never as an
// HTTP error.
func (h *HealthHandler) ProviderHealth(c *gin.Context) {
	reports := h.client.HealthCheck(c.Request.Context())

	providers := gin.H{}
	allHealthy := true
	for provider, report := range reports {
		providers[string(provider)] = report
		if report.Status != "healthy" {
			allHealthy = false
		}
	}

	status := "healthy"
	if !allHealthy {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"providers": providers,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
