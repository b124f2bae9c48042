// Package handler provides HTTP request handlers for the application.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports broker connectivity.
type HealthChecker interface {
	IsHealthy() bool
}

// HealthHandler handles the root and health check endpoints.
type HealthHandler struct {
	store  Pinger
	broker HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance. A nil broker is
// treated as disabled and not checked.
func NewHealthHandler(store Pinger, broker HealthChecker) *HealthHandler {
	return &HealthHandler{
		store:  store,
		broker: broker,
	}
}

// Root reports that the API is running.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "FocusBubble API is running"})
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the application is ready to serve traffic.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.Log.Warn("Readiness check failed", zap.String("component", "database"), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	rabbit := "disabled"
	if h.broker != nil {
		if !h.broker.IsHealthy() {
			logger.Log.Warn("Readiness check failed", zap.String("component", "rabbitmq"))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "DOWN",
				"database": "healthy",
				"rabbitmq": "unhealthy",
				"time":     time.Now(),
			})
			return
		}
		rabbit = "healthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"database": "healthy",
		"rabbitmq": rabbit,
		"time":     time.Now(),
	})
}
