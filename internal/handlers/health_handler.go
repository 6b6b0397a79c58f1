package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	sessionReady func() bool
}

// NewHealthHandler reports healthy once the session finished bootstrapping
func NewHealthHandler(sessionReady func() bool) *HealthHandler {
	return &HealthHandler{
		sessionReady: sessionReady,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if !h.sessionReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "session bootstrap in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
