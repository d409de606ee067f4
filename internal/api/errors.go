package api

import (
	"errors"
	"net/http"

	"github.com/chridipi/synapse-engine/internal/api/shared"
	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/service/payment"
	"github.com/chridipi/synapse-engine/internal/session"
	"github.com/chridipi/synapse-engine/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyTopic),
		errors.Is(err, domain.ErrInvalidOptionIndex):
		return http.StatusBadRequest

	case errors.Is(err, session.ErrNoDashboard):
		return http.StatusConflict

	case errors.Is(err, payment.ErrProvisioningFailed),
		errors.Is(err, payment.ErrNoCredential):
		return http.StatusBadGateway

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for the error. The raw
// error string never reaches the client.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, domain.ErrEmptyTopic):
		return "Topic cannot be empty"

	case errors.Is(err, domain.ErrInvalidOptionIndex):
		return "Invalid quiz option"

	case errors.Is(err, session.ErrNoDashboard):
		return "No active study session"

	case errors.Is(err, payment.ErrProvisioningFailed),
		errors.Is(err, payment.ErrNoCredential):
		return "Payment session could not be created"

	case store.IsNotFoundError(err):
		return "Not found"

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError writes the standard error response for a service-layer
// error, logging the underlying cause.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
