package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"docsumm/internal/config"
)

const minPasswordLength = 12

// weakPasswordList is rejected outright, and as the prefix of a password shorter
// than minPasswordLength+5.
var weakPasswordList = []string{
	"admin", "admin1", "admin123", "password", "password1", "password123",
	"123456", "12345678", "123456789", "1234567890", "secret", "qwerty",
	"abc123", "letmein", "welcome", "monkey", "test", "test123", "default", "root",
}

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "qwerty", "asdfgh", "zxcvb"}

// ValidateAccounts checks the USER_CREDENTIALS accounts before the API starts.
// Usernames must be unique and roles known. Passwords must have at least 12
// characters and must not be a digit run, a keyboard row or a common password.
// Errors name the account, never the password.
func ValidateAccounts(accounts []config.Account) error {
	if len(accounts) == 0 {
		return errors.New("credentials validation failed: no accounts configured")
	}
	seen := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		var err error
		switch _, dup := seen[acc.Username]; {
		case acc.Username == "":
			err = errors.New("username must not be empty")
		case dup:
			err = fmt.Errorf("duplicate username %q", acc.Username)
		case !IsValidRole(acc.Role):
			err = fmt.Errorf("%s has unknown role %q", acc.Username, acc.Role)
		default:
			if perr := validatePassword(acc.Password); perr != nil {
				err = fmt.Errorf("%s: %w", acc.Username, perr)
			}
		}
		if err != nil {
			return fmt.Errorf("credentials validation failed: %w", err)
		}
		seen[acc.Username] = struct{}{}
	}
	return nil
}

func validatePassword(pass string) error {
	lower := strings.ToLower(pass)
	switch {
	case pass == "":
		return errors.New("password must not be empty")
	case len(pass) < minPasswordLength:
		return fmt.Errorf("password must be at least %d characters (current length: %d)", minPasswordLength, len(pass))
	case isRepeatedChar(pass) || isDigitRun(pass):
		return errors.New("password must not be a simple numeric pattern")
	case containsKeyboardRow(lower):
		return errors.New("password must not be a keyboard pattern")
	case slices.Contains(weakPasswordList, lower):
		return errors.New("password must not be a weak password")
	}
	if len(pass) < minPasswordLength+5 {
		for _, weak := range weakPasswordList {
			if strings.HasPrefix(lower, weak) {
				return errors.New("password must not be based on common weak passwords")
			}
		}
	}
	return nil
}

func isRepeatedChar(s string) bool {
	return s != "" && strings.Count(s, s[:1]) == len(s)
}

// isDigitRun reports an all-digit string counting up or down by one, wrapping
// between 9 and 0 ("789012", "210987").
func isDigitRun(s string) bool {
	up, down := true, true
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		if i == 0 {
			continue
		}
		d := (int(s[i]) - int(s[i-1]) + 10) % 10
		up = up && d == 1
		down = down && d == 9
	}
	return up || down
}

func containsKeyboardRow(lower string) bool {
	for _, row := range keyboardRows {
		if strings.Contains(lower, row) || strings.Contains(lower, reverse(row)) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}
