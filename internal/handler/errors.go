package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/auth"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/middleware"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/models"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/pkg/logger"
)

const (
	detailNotFound     = "Blocked app not found"
	detailInvalidToken = "Invalid token"
	detailUnexpected   = "An unexpected error occurred"
	detailInvalidBody  = "Invalid request body"
	detailInvalidID    = "Invalid blocked app id"
)

// Report validation errors with JSON field names instead of Go field names.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func writeError(c *gin.Context, status int, detail string, fields []models.FieldError) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     http.StatusText(status),
		Detail:    detail,
		Path:      c.Request.URL.Path,
		Fields:    fields,
	})
}

// handleError maps domain errors to responses. Anything unrecognised is a
// 500 with a generic detail; the cause is only logged.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(c, http.StatusNotFound, detailNotFound, nil)
	case errors.Is(err, auth.ErrInvalidToken):
		logger.Log.Info("Identity token rejected",
			zap.Error(err),
			zap.String("requestId", middleware.GetRequestID(c)),
		)
		writeError(c, http.StatusUnauthorized, detailInvalidToken, nil)
	default:
		logger.Log.Error("Unexpected error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("requestId", middleware.GetRequestID(c)),
		)
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, detailUnexpected, nil)
	}
}

// handleBindError responds 422 with per-field details when they can be
// derived from err.
func handleBindError(c *gin.Context, err error) {
	logger.Log.Warn("Invalid request payload",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	writeError(c, http.StatusUnprocessableEntity, detailInvalidBody, fieldErrors(err))
}

func fieldErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]models.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, models.FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []models.FieldError{{
			Field:   typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []models.FieldError{{Field: "body", Message: "malformed JSON"}}
	}

	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
