package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	// ErrEmailNotFound means the email is not registered with the provider.
	ErrEmailNotFound = errors.New("email not registered")
	// ErrBadCredentials means email/password sign-in was rejected.
	ErrBadCredentials = errors.New("invalid email or password")
)

// IdentityProvider is the narrow surface of the external account system the
// app depends on: existence lookup, password-reset dispatch and sign-in.
type IdentityProvider interface {
	Lookup(ctx context.Context, email string) error
	SendResetLink(ctx context.Context, email string) error
	SignIn(ctx context.Context, email, password string) error
}

const signInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword?key=%s"

// FirebaseIdentity backs IdentityProvider with Firebase Auth: the Admin SDK
// for lookups and reset links, the Identity Toolkit REST endpoint for
// email/password sign-in (the Admin SDK has no password check).
type FirebaseIdentity struct {
	auth   *auth.Client
	apiKey string
	client *http.Client
}

func NewFirebaseIdentity(ctx context.Context, credentialsFile, webAPIKey string) (*FirebaseIdentity, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseIdentity{
		auth:   client,
		apiKey: webAPIKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (f *FirebaseIdentity) Lookup(ctx context.Context, email string) error {
	_, err := f.auth.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("lookup %s: %w", email, err)
	}
	return nil
}

// SendResetLink asks the provider to dispatch its own password-reset email.
// The provider only supports sending a reset link, not setting the password
// directly.
func (f *FirebaseIdentity) SendResetLink(ctx context.Context, email string) error {
	if _, err := f.auth.PasswordResetLink(ctx, email); err != nil {
		return fmt.Errorf("password reset link for %s: %w", email, err)
	}
	return nil
}

func (f *FirebaseIdentity) SignIn(ctx context.Context, email, password string) error {
	payload, _ := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf(signInURL, f.apiKey), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrBadCredentials
	}
	return nil
}
