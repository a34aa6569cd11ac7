package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/platewise/platewise/internal/config"
)

// InitFirebase initializes the Firebase Admin SDK and returns the Auth client.
func InitFirebase(cfg *config.Config) (*firebaseauth.Client, error) {
	opt := option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %v", err)
	}

	return client, nil
}

// GoogleUser is the identity extracted from a validated Google ID token.
type GoogleUser struct {
	UID           string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// VerifyGoogleToken verifies a Google ID token against the configured client ID.
func VerifyGoogleToken(ctx context.Context, idToken string, clientID string) (*GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, idToken, clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %v", err)
	}

	googleUser := &GoogleUser{
		UID: payload.Subject,
	}

	if email, ok := payload.Claims["email"].(string); ok {
		googleUser.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		googleUser.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		googleUser.Picture = picture
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		googleUser.EmailVerified = verified
	}

	return googleUser, nil
}
