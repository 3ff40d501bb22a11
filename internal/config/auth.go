package config

import (
	"fmt"
	"strings"
	"time"
)

const minJWTSecretLength = 32

var weakSecrets = []string{"secret", "password", "test", "admin", "default"}

// Account is a user allowed to request a token.
type Account struct {
	Username string
	Password string
	Role     string
}

// AuthConfig holds JWT and credential settings for the API server.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration

	Admin Account
	// Users come from USER_CREDENTIALS ("alice:pass,bob:pass:viewer"). The role
	// defaults to "user".
	Users []Account
}

// LoadAuthConfig reads AuthConfig from the environment and validates it.
func LoadAuthConfig() (*AuthConfig, error) {
	cfg := &AuthConfig{
		JWTSecret: GetEnvString("JWT_SECRET", ""),
		TokenTTL:  GetEnvDuration("JWT_TOKEN_TTL", time.Hour),
		Admin: Account{
			Username: GetEnvString("ADMIN_USER", ""),
			Password: GetEnvString("ADMIN_USER_PASSWORD", ""),
			Role:     "admin",
		},
	}

	for _, entry := range GetEnvStringList("USER_CREDENTIALS", nil) {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("USER_CREDENTIALS entries must look like name:password[:role]")
		}
		role := "user"
		if len(parts) == 3 {
			role = parts[2]
		}
		if role != "user" && role != "viewer" {
			return nil, fmt.Errorf("USER_CREDENTIALS role must be user or viewer, got %q", role)
		}
		cfg.Users = append(cfg.Users, Account{Username: parts[0], Password: parts[1], Role: role})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects missing or weak secrets and an incomplete admin account.
func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	for _, weak := range weakSecrets {
		if c.JWTSecret == weak || c.JWTSecret == weak+"123" {
			return fmt.Errorf("JWT_SECRET must not be a common weak value")
		}
	}
	if c.Admin.Username == "" || c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_USER and ADMIN_USER_PASSWORD must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be positive")
	}
	return nil
}

// Accounts returns the admin followed by the regular users.
func (c *AuthConfig) Accounts() []Account {
	return append([]Account{c.Admin}, c.Users...)
}
