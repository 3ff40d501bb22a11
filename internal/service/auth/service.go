// Package auth holds the credential checks behind token issuance. It knows nothing
// about HTTP, so the API server and tooling can share it.
package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned when a username and password do not match an account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials represents authentication credentials.
type Credentials struct {
	Username string
	Password string
}

// CredentialRequirements defines password policy requirements.
type CredentialRequirements struct {
	MinPasswordLength int
	WeakPasswords     []string
}

// AuthProvider checks credentials against some account store.
type AuthProvider interface {
	// ValidateCredentials returns an error wrapping ErrInvalidCredentials on mismatch.
	ValidateCredentials(ctx context.Context, creds Credentials) error

	// IdentifyUser returns the role of a known username.
	IdentifyUser(ctx context.Context, username string) (string, error)

	// GetRequirements returns the credential requirements for this provider.
	GetRequirements() CredentialRequirements

	Name() string
}

// AuthService handles authentication business logic.
type AuthService struct {
	provider AuthProvider
}

// NewAuthService creates a new authentication service.
func NewAuthService(provider AuthProvider) *AuthService {
	return &AuthService{provider: provider}
}

// ValidateCredentials validates user credentials via the configured provider.
func (s *AuthService) ValidateCredentials(ctx context.Context, creds Credentials) error {
	return s.provider.ValidateCredentials(ctx, creds)
}

// Authenticate validates creds and returns the role of the account.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.provider.ValidateCredentials(ctx, creds); err != nil {
		return "", err
	}
	role, err := s.provider.IdentifyUser(ctx, creds.Username)
	if err != nil {
		return "", fmt.Errorf("identify user: %w", err)
	}
	return role, nil
}

// GetProvider returns the current authentication provider.
func (s *AuthService) GetProvider() AuthProvider {
	return s.provider
}
