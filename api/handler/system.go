package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ddevcap/steam-profile-api/steam"
)

// UpstreamHealth reports the cached result of the Steam health checker.
type UpstreamHealth interface {
	Status() steam.HealthStatus
}

// CacheStats is the part of the response cache /ready reports on.
type CacheStats interface {
	Len() int
}

type SystemHandler struct {
	health UpstreamHealth
	cache  CacheStats
}

// NewSystemHandler creates the probe handler. health may be nil, in which
// case the upstream is always reported available.
func NewSystemHandler(health UpstreamHealth, cache CacheStats) *SystemHandler {
	return &SystemHandler{health: health, cache: cache}
}

// HealthLive handles GET /health. Always returns 200.
func (h *SystemHandler) HealthLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(timestampLayout),
	})
}

// HealthReady handles GET /ready and returns 503 while the Steam API is
// considered unreachable.
func (h *SystemHandler) HealthReady(c *gin.Context) {
	upstream := steam.HealthStatus{Available: true}
	if h.health != nil {
		upstream = h.health.Status()
	}
	body := gin.H{
		"status":     "ready",
		"steam":      upstream,
		"cacheItems": h.cache.Len(),
	}
	if !upstream.Available {
		body["status"] = "not ready"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
