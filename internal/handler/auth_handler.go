package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/auth"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/metrics"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/models"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/pkg/logger"
)

// Verification results used as metric labels.
const (
	authResultVerified = "verified"
	authResultInvalid  = "invalid"
	authResultError    = "error"
)

// IdentityVerifier turns a raw identity token into a trusted identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*auth.VerifiedIdentity, error)
}

// AuthHandler serves the sign-in endpoint.
type AuthHandler struct {
	verifier IdentityVerifier
	metrics  metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler. A nil recorder disables metrics.
func NewAuthHandler(verifier IdentityVerifier, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AuthHandler{verifier: verifier, metrics: recorder}
}

// GoogleLogin handles POST /auth/google. Every rejected token gets the same
// 401 body regardless of which check failed.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), *req.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			h.metrics.RecordAuthVerification(authResultInvalid)
		} else {
			h.metrics.RecordAuthVerification(authResultError)
		}
		handleError(c, err)
		return
	}
	h.metrics.RecordAuthVerification(authResultVerified)

	logger.Log.Info("User signed in", zap.String("subject", identity.SubjectID))

	c.JSON(http.StatusOK, models.UserInfoResponse{
		ID:      identity.SubjectID,
		Email:   identity.Email,
		Name:    identity.DisplayName,
		Picture: identity.PictureURL,
	})
}
