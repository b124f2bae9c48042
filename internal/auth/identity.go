// Package auth verifies third-party identity tokens and extracts user identity.
//
// Signature, expiry and claim decoding are delegated to a TokenVerifier
// adapter. IdentityVerifier then enforces the audience allow-list and the
// email-verified policy before any identity is trusted.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidToken matches every *InvalidTokenError.
var ErrInvalidToken = errors.New("invalid token")

// InvalidTokenError reports a rejected identity token. Reason and Err are
// diagnostic detail for logs and must not be sent to clients.
type InvalidTokenError struct {
	Reason string
	Err    error
}

func (e *InvalidTokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid token: %s: %v", e.Reason, e.Err)
	}
	return "invalid token: " + e.Reason
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidToken) true.
func (e *InvalidTokenError) Is(target error) bool { return target == ErrInvalidToken }

func invalid(reason string, err error) error {
	return &InvalidTokenError{Reason: reason, Err: err}
}

// ClaimSet is the decoded content of a token whose signature and expiry have
// been verified.
type ClaimSet struct {
	Subject  string
	Issuer   string
	Audience string
	Email    string
	// EmailVerified is nil when the token carries no email_verified claim.
	EmailVerified *bool
	Name          *string
	Picture       *string
}

// VerifiedIdentity is the user identity extracted from a trusted token.
type VerifiedIdentity struct {
	SubjectID   string
	Email       string
	DisplayName *string
	PictureURL  *string
}

// TokenVerifier checks a raw token's signature and expiry and decodes its
// claims. Implementations must validate against the given audiences rather
// than any library default.
type TokenVerifier interface {
	VerifySignatureAndDecode(ctx context.Context, rawToken string, audiences []string) (*ClaimSet, error)
}

// IdentityVerifier applies the audience and email policies on top of a TokenVerifier.
type IdentityVerifier struct {
	tokens    TokenVerifier
	audiences []string
	allowed   map[string]bool
	timeout   time.Duration
}

// NewIdentityVerifier creates an IdentityVerifier. The audience allow-list
// must not be empty. A positive timeout bounds each verification.
func NewIdentityVerifier(tokens TokenVerifier, audiences []string, timeout time.Duration) (*IdentityVerifier, error) {
	if tokens == nil {
		return nil, errors.New("token verifier is required")
	}

	allowed := make(map[string]bool, len(audiences))
	list := make([]string, 0, len(audiences))
	for _, aud := range audiences {
		aud = strings.TrimSpace(aud)
		if aud != "" && !allowed[aud] {
			allowed[aud] = true
			list = append(list, aud)
		}
	}
	if len(list) == 0 {
		return nil, errors.New("at least one allowed audience is required")
	}

	return &IdentityVerifier{
		tokens:    tokens,
		audiences: list,
		allowed:   allowed,
		timeout:   timeout,
	}, nil
}

// Audiences returns a copy of the allow-list.
func (v *IdentityVerifier) Audiences() []string {
	return append([]string(nil), v.audiences...)
}

// Verify validates rawToken and returns the identity it asserts. Rejections
// are *InvalidTokenError; context cancellation and deadline errors are
// returned wrapped so callers can treat them as infrastructure failures.
func (v *IdentityVerifier) Verify(ctx context.Context, rawToken string) (*VerifiedIdentity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, invalid("missing token", nil)
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	claims, err := v.tokens.VerifySignatureAndDecode(ctx, rawToken, v.Audiences())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("verify identity token: %w", err)
		}
		return nil, invalid("verification failed", err)
	}
	if claims == nil {
		return nil, invalid("empty claim set", nil)
	}

	if !v.allowed[claims.Audience] {
		return nil, invalid(fmt.Sprintf("audience %q not allowed", claims.Audience), nil)
	}

	if claims.EmailVerified == nil || !*claims.EmailVerified {
		return nil, invalid("email not verified", nil)
	}

	if claims.Subject == "" {
		return nil, invalid("missing subject", nil)
	}
	if claims.Email == "" {
		return nil, invalid("missing email", nil)
	}

	return &VerifiedIdentity{
		SubjectID:   claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PictureURL:  claims.Picture,
	}, nil
}
