package validation

import (
	"errors"
	"strings"
)

const maxNameLength = 100

// ValidateFoodName requires a non-blank name.
func ValidateFoodName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("food name is required")
	}

	if len(trimmed) > maxNameLength {
		return errors.New("food name is too long (max 100 characters)")
	}

	return nil
}

// ValidateFullName allows an empty name.
func ValidateFullName(name string) error {
	if len(strings.TrimSpace(name)) > maxNameLength {
		return errors.New("name is too long (max 100 characters)")
	}
	return nil
}
