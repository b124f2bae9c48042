package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://issuer.focusbubble.test"

func newRSAKey(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return key, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func baseJWTClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":            "user-123",
		"iss":            testIssuer,
		"aud":            "android-client-id",
		"email":          "user@example.com",
		"email_verified": true,
		"name":           "Test User",
		"exp":            time.Now().Add(time.Hour).Unix(),
		"iat":            time.Now().Unix(),
	}
}

func TestJWTVerifier(t *testing.T) {
	key, pubPEM := newRSAKey(t)
	otherKey, _ := newRSAKey(t)

	verifier, err := NewJWTVerifier(pubPEM, testIssuer)
	require.NoError(t, err)

	audiences := []string{"android-client-id"}
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		claims, err := verifier.VerifySignatureAndDecode(ctx, signRS256(t, key, baseJWTClaims()), audiences)
		require.NoError(t, err)

		assert.Equal(t, "user-123", claims.Subject)
		assert.Equal(t, "android-client-id", claims.Audience)
		assert.Equal(t, testIssuer, claims.Issuer)
		assert.Equal(t, "user@example.com", claims.Email)
		require.NotNil(t, claims.EmailVerified)
		assert.True(t, *claims.EmailVerified)
		assert.Nil(t, claims.Picture)
	})

	t.Run("single-element audience array", func(t *testing.T) {
		c := baseJWTClaims()
		c["aud"] = []string{"android-client-id"}

		claims, err := verifier.VerifySignatureAndDecode(ctx, signRS256(t, key, c), audiences)
		require.NoError(t, err)
		assert.Equal(t, "android-client-id", claims.Audience)
	})

	rejections := []struct {
		name  string
		token func() string
	}{
		{
			name:  "signed with another key",
			token: func() string { return signRS256(t, otherKey, baseJWTClaims()) },
		},
		{
			name: "expired",
			token: func() string {
				c := baseJWTClaims()
				c["exp"] = time.Now().Add(-time.Hour).Unix()
				return signRS256(t, key, c)
			},
		},
		{
			name: "missing expiry",
			token: func() string {
				c := baseJWTClaims()
				delete(c, "exp")
				return signRS256(t, key, c)
			},
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := baseJWTClaims()
				c["iss"] = "https://evil.example.com"
				return signRS256(t, key, c)
			},
		},
		{
			name: "audience not allowed",
			token: func() string {
				c := baseJWTClaims()
				c["aud"] = "other-client-id"
				return signRS256(t, key, c)
			},
		},
		{
			name: "multiple audiences",
			token: func() string {
				c := baseJWTClaims()
				c["aud"] = []string{"android-client-id", "other-client-id"}
				return signRS256(t, key, c)
			},
		},
		{
			name: "HS256 algorithm",
			token: func() string {
				signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, baseJWTClaims()).SignedString([]byte("secret"))
				require.NoError(t, err)
				return signed
			},
		},
		{
			name:  "garbage",
			token: func() string { return "not-a-jwt" },
		},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifySignatureAndDecode(ctx, tt.token(), audiences)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTVerifier_NoIssuerCheck(t *testing.T) {
	key, pubPEM := newRSAKey(t)

	verifier, err := NewJWTVerifier(pubPEM, "")
	require.NoError(t, err)

	c := baseJWTClaims()
	c["iss"] = "https://anything.example.com"

	_, err = verifier.VerifySignatureAndDecode(context.Background(), signRS256(t, key, c), []string{"android-client-id"})
	assert.NoError(t, err)
}

func TestLoadJWTVerifier(t *testing.T) {
	_, pubPEM := newRSAKey(t)
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, pubPEM, 0o600))

	v, err := LoadJWTVerifier(path, testIssuer)
	require.NoError(t, err)
	assert.NotNil(t, v)

	_, err = LoadJWTVerifier(filepath.Join(t.TempDir(), "missing.pem"), "")
	assert.Error(t, err)

	_, err = NewJWTVerifier([]byte("not pem"), "")
	assert.Error(t, err)
}

func TestIdentityVerifier_WithJWTVerifier(t *testing.T) {
	key, pubPEM := newRSAKey(t)
	tokens, err := NewJWTVerifier(pubPEM, testIssuer)
	require.NoError(t, err)

	v, err := NewIdentityVerifier(tokens, []string{"android-client-id"}, time.Second)
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), signRS256(t, key, baseJWTClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.SubjectID)

	c := baseJWTClaims()
	c["email_verified"] = false
	_, err = v.Verify(context.Background(), signRS256(t, key, c))
	assert.ErrorIs(t, err, ErrInvalidToken)

	c = baseJWTClaims()
	c["aud"] = "other-client-id"
	_, err = v.Verify(context.Background(), signRS256(t, key, c))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
