package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session lifecycle event types.
const (
	// TypeSessionStarted fires when a submission passes the entitlement
	// gate and processing begins.
	TypeSessionStarted = "session.started"

	// TypeSessionReady fires when the dashboard becomes visible.
	TypeSessionReady = "session.ready"

	// TypeSessionDegraded fires when remote generation failed and the
	// curated knowledge base served the session.
	TypeSessionDegraded = "session.degraded"

	// TypeSessionReset fires when a session returns to the input state.
	TypeSessionReset = "session.reset"

	// TypeQuizAnswered fires on every quiz answer submission.
	TypeQuizAnswered = "quiz.answered"

	// TypeQuizCompleted fires when the last question is answered correctly.
	TypeQuizCompleted = "quiz.completed"

	// TypeAccountUpgraded fires when an account reaches the paid tier.
	TypeAccountUpgraded = "account.upgraded"

	// TypeAccountSignedOut fires when an account's state is discarded.
	TypeAccountSignedOut = "account.signed_out"
)

// SessionEvent represents a session or account lifecycle transition. It
// carries the event-specific data as JSON so handlers need no dependency on
// the session package.
type SessionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants above
	Type string `json:"type"`

	// AccountID identifies the account the event belongs to
	AccountID uuid.UUID `json:"account_id"`

	// Payload contains event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *SessionEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewSessionEvent creates a SessionEvent of the given type for an account.
// A nil payload produces an event without a payload.
func NewSessionEvent(eventType string, accountID uuid.UUID, payload interface{}) (*SessionEvent, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}

	return &SessionEvent{
		ID:        uuid.New(),
		Type:      eventType,
		AccountID: accountID,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *SessionEvent) error
}
