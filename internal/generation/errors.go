package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when package generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate study package for topic")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during package generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrNoCredential is returned when no API credential is configured for the
	// selected generation provider
	ErrNoCredential = errors.New("no generation credential configured")

	// ErrNoMediaFound is returned by a MediaLocator when no media matches the query
	ErrNoMediaFound = errors.New("no media found for search query")
)
