package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// ErrAudienceNotAllowed is returned by adapters when a token names an
// audience outside the allow-list.
var ErrAudienceNotAllowed = errors.New("token audience not allowed")

type googleValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier verifies Google Sign-In ID tokens.
type GoogleVerifier struct {
	validator googleValidator
}

// NewGoogleVerifier creates a GoogleVerifier that fetches Google's signing
// certificates with httpClient.
func NewGoogleVerifier(ctx context.Context, httpClient *http.Client) (*GoogleVerifier, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create google token validator: %w", err)
	}

	return &GoogleVerifier{validator: v}, nil
}

// VerifySignatureAndDecode validates the token against the allow-listed
// audience it names. The unverified payload is read only to pick that
// audience; Validate then checks signature, expiry and audience.
func (g *GoogleVerifier) VerifySignatureAndDecode(ctx context.Context, rawToken string, audiences []string) (*ClaimSet, error) {
	unverified, err := idtoken.ParsePayload(rawToken)
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	if !contains(audiences, unverified.Audience) {
		return nil, ErrAudienceNotAllowed
	}

	payload, err := g.validator.Validate(ctx, rawToken, unverified.Audience)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}

	if !googleIssuers[payload.Issuer] {
		return nil, fmt.Errorf("unexpected issuer %q", payload.Issuer)
	}

	claims := claimSetFromMap(payload.Claims)
	claims.Subject = payload.Subject
	claims.Issuer = payload.Issuer
	claims.Audience = payload.Audience

	return claims, nil
}
