package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc reports backing-store reachability.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	ping    PingFunc
	started time.Time
	version string
}

func NewHealthHandler(ping PingFunc, version string) *HealthHandler {
	return &HealthHandler{
		ping:    ping,
		started: time.Now(),
		version: version,
	}
}

func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
	r.GET("/health/live", h.Live)
	r.GET("/health/ready", h.Ready)
}

// Live reports process liveness only; it never touches the database.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the backing store is reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	overall, dbStatus := "ok", "up"
	status := http.StatusOK
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			overall, dbStatus = "degraded", "down"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"database":  dbStatus,
	})
}
