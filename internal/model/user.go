// Package model defines domain entities for the application.
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxEmailLength is the maximum number of characters in a user email.
const MaxEmailLength = 255

// Email validation errors.
var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmailTooLong  = errors.New("email exceeds maximum length")
)

// User is the sole persisted entity of the inventory registry.
// Email is unique and compared case-sensitively.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateEmail checks the required and length constraints of an email.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	return nil
}
