package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTopic is returned when a submitted topic is empty after
	// normalization.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrInvalidOptionIndex is returned when a quiz answer references an
	// option outside the question's option list.
	ErrInvalidOptionIndex = errors.New("invalid quiz option index")

	// ErrUnauthorized is returned when an operation is not permitted for the
	// account's current tier.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// NormalizeTopic lower-cases and trims a user-supplied topic for keyword
// matching. The original text is passed through verbatim to generation calls;
// only matching uses the normalized form.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
