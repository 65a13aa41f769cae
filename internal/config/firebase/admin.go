package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// TokenVerifier is the part of the Firebase Auth client the API depends on.
// *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// NewAuthClient initializes the Firebase Admin SDK and returns its Auth
// client. With an empty credentialsFile the SDK falls back to Application
// Default Credentials.
func NewAuthClient(ctx context.Context, credentialsFile string) (*auth.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firebase Auth client: %w", err)
	}

	return authClient, nil
}

// VerifyToken verifies a Firebase ID token and returns the user ID
func VerifyToken(ctx context.Context, verifier TokenVerifier, idToken string) (string, error) {
	if verifier == nil {
		return "", fmt.Errorf("firebase auth client not initialized")
	}

	token, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("failed to verify ID token: %w", err)
	}

	return token.UID, nil
}
