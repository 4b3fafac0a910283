package validation

import (
	"fmt"
	"regexp"
	"unicode"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 150
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxBioLength      = 300
)

// Starts and ends with an alphanumeric, dots/dashes/underscores allowed inside.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

// ValidateUsername checks length and allowed characters. The value is used
// verbatim in profile URLs, so the character set stays URL-safe.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return fmt.Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits, dots, dashes and underscores, and must start and end with a letter or digit")
	}
	return nil
}

// ValidatePassword enforces length bounds and requires at least one letter
// and one digit.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(runes) > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateBio bounds profile bio length.
func ValidateBio(bio string) error {
	if len([]rune(bio)) > MaxBioLength {
		return fmt.Errorf("bio must be at most %d characters", MaxBioLength)
	}
	return nil
}
