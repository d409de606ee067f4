package identity

import "errors"

// Common identity resolution errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid identity token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("identity token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("identity token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("identity token is missing")
)
