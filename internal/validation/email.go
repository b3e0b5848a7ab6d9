package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	ErrEmailRequired = errors.New("email address is required")
	ErrEmailFormat   = errors.New("invalid email format")
)

// emailShape is the loose local@domain.tld check used for email changes.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var zeroWidth = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "")

// NormalizeEmail trims, lowercases and strips zero-width characters.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(zeroWidth.Replace(email)))
}

// ValidateEmail validates email format and length with the RFC 5322 parser.
func ValidateEmail(email string) error {
	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	if email == "" {
		return ErrEmailRequired
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	return nil
}

// ValidateEmailShape only checks for something@something.tld without whitespace.
func ValidateEmailShape(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailShape.MatchString(email) {
		return ErrEmailFormat
	}
	return nil
}
