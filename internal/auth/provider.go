package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/config"
)

// NewTokenVerifier builds the TokenVerifier adapter for the configured provider.
func NewTokenVerifier(ctx context.Context, cfg config.AuthConfig) (TokenVerifier, error) {
	switch cfg.Provider {
	case config.ProviderGoogle, "":
		return NewGoogleVerifier(ctx, &http.Client{Timeout: cfg.VerifyTimeout})
	case config.ProviderFirebase:
		return NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath)
	case config.ProviderJWT:
		return LoadJWTVerifier(cfg.JWTPublicKeyPath, cfg.JWTIssuer)
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.Provider)
	}
}

// NewFromConfig builds the IdentityVerifier for cfg.
func NewFromConfig(ctx context.Context, cfg config.AuthConfig) (*IdentityVerifier, error) {
	tokens, err := NewTokenVerifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewIdentityVerifier(tokens, cfg.Audiences(), cfg.VerifyTimeout)
}
