package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"docsumm/internal/config"
	authservice "docsumm/internal/service/auth"
)

// AccountProvider authenticates against a fixed list of configured accounts.
type AccountProvider struct {
	accounts []config.Account
}

// NewAccountProvider creates a provider over accounts, typically AuthConfig.Accounts().
func NewAccountProvider(accounts []config.Account) *AccountProvider {
	return &AccountProvider{accounts: accounts}
}

// ValidateCredentials compares every account in constant time so the response time
// does not reveal which usernames exist.
func (p *AccountProvider) ValidateCredentials(_ context.Context, creds authservice.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("credentials must not be empty: %w", authservice.ErrInvalidCredentials)
	}

	matched := 0
	for _, acc := range p.accounts {
		userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(acc.Username))
		passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(acc.Password))
		matched |= userMatch & passMatch
	}
	if matched != 1 {
		return authservice.ErrInvalidCredentials
	}
	return nil
}

// IdentifyUser returns the role of username.
func (p *AccountProvider) IdentifyUser(_ context.Context, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username must not be empty")
	}
	for _, acc := range p.accounts {
		if subtle.ConstantTimeCompare([]byte(username), []byte(acc.Username)) == 1 {
			if !IsValidRole(acc.Role) {
				return "", fmt.Errorf("account %q has unknown role %q", acc.Username, acc.Role)
			}
			return acc.Role, nil
		}
	}
	return "", fmt.Errorf("user not found: %w", authservice.ErrInvalidCredentials)
}

// GetRequirements returns the password policy enforced by ValidateAccounts.
func (p *AccountProvider) GetRequirements() authservice.CredentialRequirements {
	return authservice.CredentialRequirements{
		MinPasswordLength: minPasswordLength,
		WeakPasswords:     weakPasswordList,
	}
}

func (p *AccountProvider) Name() string {
	return "accounts"
}
