package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type firebaseTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies Firebase Authentication ID tokens issued for one project.
type FirebaseVerifier struct {
	client    firebaseTokenVerifier
	projectID string
}

// NewFirebaseVerifier initializes a Firebase app pinned to projectID. The
// credentials file is optional; token verification only needs the project ID.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsPath string) (*FirebaseVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project ID is required")
	}

	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

// VerifySignatureAndDecode verifies a Firebase ID token. Firebase binds the
// audience to the project ID, so the project must itself be allow-listed.
func (f *FirebaseVerifier) VerifySignatureAndDecode(ctx context.Context, rawToken string, audiences []string) (*ClaimSet, error) {
	if !contains(audiences, f.projectID) {
		return nil, ErrAudienceNotAllowed
	}

	token, err := f.client.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("verify firebase token: %w", err)
	}

	if token.Audience != f.projectID {
		return nil, ErrAudienceNotAllowed
	}

	claims := claimSetFromMap(token.Claims)
	claims.Subject = token.Subject
	if claims.Subject == "" {
		claims.Subject = token.UID
	}
	claims.Issuer = token.Issuer
	claims.Audience = token.Audience

	return claims, nil
}
