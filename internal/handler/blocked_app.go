package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/models"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/pkg/logger"
)

// BlockedAppService is the business layer used by BlockedAppHandler.
type BlockedAppService interface {
	List(ctx context.Context) ([]*models.BlockedApp, error)
	Get(ctx context.Context, id int64) (*models.BlockedApp, error)
	Create(ctx context.Context, in models.NewBlockedApp) (*models.BlockedApp, error)
	Delete(ctx context.Context, id int64) error
}

// BlockedAppHandler serves the /blocked_apps resource.
type BlockedAppHandler struct {
	service BlockedAppService
}

// NewBlockedAppHandler creates a new BlockedAppHandler instance.
func NewBlockedAppHandler(service BlockedAppService) *BlockedAppHandler {
	return &BlockedAppHandler{service: service}
}

// List handles GET /blocked_apps.
func (h *BlockedAppHandler) List(c *gin.Context) {
	apps, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Get handles GET /blocked_apps/:id.
func (h *BlockedAppHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	app, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Create handles POST /blocked_apps.
func (h *BlockedAppHandler) Create(c *gin.Context) {
	var req models.CreateBlockedAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	app, err := h.service.Create(c.Request.Context(), req.ToNewBlockedApp())
	if err != nil {
		handleError(c, err)
		return
	}

	logger.Log.Info("Blocked app created",
		zap.Int64("id", app.ID),
		zap.String("packageName", app.PackageName),
	)
	c.JSON(http.StatusOK, app)
}

// Delete handles DELETE /blocked_apps/:id.
func (h *BlockedAppHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	logger.Log.Info("Blocked app deleted", zap.Int64("id", id))
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Blocked app deleted successfully"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, detailInvalidID, []models.FieldError{{
			Field:   "id",
			Message: "must be an integer",
		}})
		return 0, false
	}
	return id, true
}
