package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avatarworks/mouthpiece/pkg/avatar"
	"github.com/avatarworks/mouthpiece/pkg/types"
)

// SpeakHandler handles speak requests
type SpeakHandler struct {
	client *avatar.Client
}

// NewSpeakHandler creates a new speak handler
func NewSpeakHandler(client *avatar.Client) *SpeakHandler {
	return &SpeakHandler{client: client}
}

// Speak handles POST /api/v1/speak
func (h *SpeakHandler) Speak(c *gin.Context) {
	var req types.SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	result, err := h.client.Speak(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrEmptyText):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": err.Error(),
			})
		case errors.Is(err, &avatar.AllProvidersFailedError{}):
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "all_providers_failed",
				"message": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
