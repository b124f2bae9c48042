package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtLeeway = 30 * time.Second

// JWTVerifier verifies RS256 tokens signed by a single statically configured key.
type JWTVerifier struct {
	key    *rsa.PublicKey
	issuer string
}

// NewJWTVerifier parses a PEM-encoded RSA public key or certificate. An empty
// issuer disables the issuer check.
func NewJWTVerifier(publicKeyPEM []byte, issuer string) (*JWTVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return &JWTVerifier{key: key, issuer: issuer}, nil
}

// LoadJWTVerifier reads the public key from path.
func LoadJWTVerifier(path, issuer string) (*JWTVerifier, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return NewJWTVerifier(pem, issuer)
}

// VerifySignatureAndDecode checks signature, expiry and issuer, and requires
// exactly one audience that is in the allow-list.
func (j *JWTVerifier) VerifySignatureAndDecode(_ context.Context, rawToken string, audiences []string) (*ClaimSet, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(jwtLeeway),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.Parse(rawToken, func(*jwt.Token) (interface{}, error) {
		return j.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	aud, err := mapClaims.GetAudience()
	if err != nil {
		return nil, fmt.Errorf("read audience: %w", err)
	}
	if len(aud) != 1 || !contains(audiences, aud[0]) {
		return nil, ErrAudienceNotAllowed
	}

	claims := claimSetFromMap(mapClaims)
	claims.Audience = aud[0]

	return claims, nil
}
