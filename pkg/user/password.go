package user

import (
	"strings"
	"unicode"

	"foodgram/domain"
)

// PasswordPolicy is the strength check applied on registration and password change.
type PasswordPolicy struct {
	MinLength int
}

func (p PasswordPolicy) Validate(password, username, email string) error {
	if len([]rune(password)) < p.MinLength {
		return domain.ErrPasswordTooShort
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return domain.ErrPasswordNumeric
	}

	lower := strings.ToLower(password)
	localPart, _, _ := strings.Cut(strings.ToLower(email), "@")
	for _, attr := range []string{strings.ToLower(username), strings.ToLower(email), localPart} {
		if attr != "" && lower == attr {
			return domain.ErrPasswordTooSimilar
		}
	}
	return nil
}
