package session

import (
	"errors"
	"time"

	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/domain"
)

// State is the coarse session state.
type State string

// Legal session states. Transitions are INPUT → PROCESSING → DASHBOARD and
// any state → INPUT via reset; nothing else.
const (
	StateInput      State = "INPUT"
	StateProcessing State = "PROCESSING"
	StateDashboard  State = "DASHBOARD"
)

// Outcome is the result of the most recent quiz answer.
type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Prompt tells the caller what to present when a submission is rejected at
// the entitlement gate. Gate rejections are normal control flow, not errors.
type Prompt string

const (
	// PromptNone accompanies accepted or ignored submissions.
	PromptNone Prompt = ""

	// PromptSignIn is surfaced to guests.
	PromptSignIn Prompt = "signin"

	// PromptUpgrade is surfaced to metered accounts with no credits left.
	PromptUpgrade Prompt = "upgrade"
)

// SubmitResult reports the gate decision for a topic submission.
type SubmitResult struct {
	Accepted bool   `json:"accepted"`
	Prompt   Prompt `json:"prompt,omitempty"`
}

// Session errors.
var (
	// ErrNoDashboard is returned when a quiz operation arrives outside the
	// DASHBOARD state.
	ErrNoDashboard = errors.New("no active dashboard session")
)

// Snapshot is a point-in-time copy of a machine's observable state.
type Snapshot struct {
	State           State                `json:"state"`
	Topic           string               `json:"topic,omitempty"`
	ProgressPercent int                  `json:"progress_percent"`
	LogMessages     []string             `json:"log_messages,omitempty"`
	Package         *domain.StudyPackage `json:"package,omitempty"`
	QuizCursor      int                  `json:"quiz_cursor"`
	LastOutcome     Outcome              `json:"last_outcome"`
	Degraded        bool                 `json:"degraded"`
}

// Timings are the pacing knobs of the PROCESSING animation and the quiz
// advance delay.
type Timings struct {
	// ProgressTick is the interval of the cosmetic progress ticker.
	ProgressTick time.Duration

	// LogTick is the interval of the cosmetic status-log ticker.
	LogTick time.Duration

	// SettleDelay separates progress reaching 100 from the success log line.
	SettleDelay time.Duration

	// DisplayDelay separates the success log line from the DASHBOARD
	// transition.
	DisplayDelay time.Duration

	// AdvanceDelay separates a correct answer from the cursor advancing to
	// the next question.
	AdvanceDelay time.Duration
}

// TimingsFromConfig converts the millisecond configuration values.
func TimingsFromConfig(cfg config.SessionConfig) Timings {
	return Timings{
		ProgressTick: time.Duration(cfg.ProgressTickMS) * time.Millisecond,
		LogTick:      time.Duration(cfg.LogTickMS) * time.Millisecond,
		SettleDelay:  time.Duration(cfg.SettleDelayMS) * time.Millisecond,
		DisplayDelay: time.Duration(cfg.DisplayDelayMS) * time.Millisecond,
		AdvanceDelay: time.Duration(cfg.AdvanceDelayMS) * time.Millisecond,
	}
}
