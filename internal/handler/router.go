package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/metrics"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/middleware"
)

// RouterDeps holds everything NewRouter wires into routes.
type RouterDeps struct {
	BlockedApps *BlockedAppHandler
	Auth        *AuthHandler
	Health      *HealthHandler
	// Recorder receives HTTP metrics. Nil disables the middleware.
	Recorder metrics.Recorder
	// MetricsHandler is mounted on GET /metrics when non-nil.
	MetricsHandler http.Handler
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	if deps.Recorder != nil {
		r.Use(middleware.Metrics(deps.Recorder))
	}

	r.GET("/", deps.Health.Root)
	r.GET("/health/live", deps.Health.LivenessProbe)
	r.GET("/health/ready", deps.Health.ReadinessProbe)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	apps := r.Group("/blocked_apps")
	apps.GET("", deps.BlockedApps.List)
	apps.POST("", deps.BlockedApps.Create)
	apps.GET("/:id", deps.BlockedApps.Get)
	apps.DELETE("/:id", deps.BlockedApps.Delete)

	r.POST("/auth/google", deps.Auth.GoogleLogin)

	return r
}
