package api

import (
	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/session"
)

// Common request/response structures

// SubmitSessionRequest defines the payload for the topic submission endpoint.
type SubmitSessionRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// SubmitSessionResponse reports the gate decision. Accepted submissions also
// carry the initial PROCESSING snapshot.
type SubmitSessionResponse struct {
	Accepted bool              `json:"accepted"`
	Prompt   session.Prompt    `json:"prompt,omitempty"`
	Session  *session.Snapshot `json:"session,omitempty"`
}

// AnswerRequest defines the payload for a quiz answer.
type AnswerRequest struct {
	OptionIndex int `json:"option_index" validate:"gte=0"`
}

// AnswerResponse reports the quiz outcome and the entitlement after any XP
// award.
type AnswerResponse struct {
	Outcome     session.Outcome    `json:"outcome"`
	Entitlement domain.Entitlement `json:"entitlement"`
}

// AccountResponse is the entitlement snapshot for the account surface.
type AccountResponse struct {
	Entitlement domain.Entitlement `json:"entitlement"`
}

// PaymentSessionResponse carries the opaque secret the front-end uses to
// confirm the payment.
type PaymentSessionResponse struct {
	ClientSecret string `json:"clientSecret"`
}
