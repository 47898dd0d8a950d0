package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avatarworks/mouthpiece/pkg/avatar"
)

// StatsHandler exposes client statistics and cache management
type StatsHandler struct {
	client *avatar.Client
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(client *avatar.Client) *StatsHandler {
	return &StatsHandler{client: client}
}

// Stats handles GET /api/v1/stats
func (h *StatsHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.Stats())
}

// ClearCache handles DELETE /api/v1/cache
func (h *StatsHandler) ClearCache(c *gin.Context) {
	cleared := h.client.ClearCache()
	c.JSON(http.StatusOK, gin.H{
		"cleared": cleared,
	})
}
