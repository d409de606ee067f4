package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/events"
	"github.com/chridipi/synapse-engine/internal/ledger"
	"github.com/chridipi/synapse-engine/internal/pipeline"
)

// Machine is the per-account session state machine. All exported methods
// are safe for concurrent use.
type Machine struct {
	logger    *slog.Logger
	pipeline  *pipeline.Pipeline
	ledger    *ledger.Service
	emitter   events.EventEmitter
	accountID uuid.UUID
	timings   Timings

	mu       sync.Mutex
	state    State
	topic    string
	tierHint domain.Tier
	progress int
	logs     []string
	pkg      *domain.StudyPackage
	degraded bool
	cursor   int
	outcome  Outcome
	tickers  *tickerSet

	// epoch increments on every entry into PROCESSING and on every reset.
	// Asynchronous continuations capture the epoch they were scheduled under
	// and abandon themselves when it no longer matches.
	epoch uint64
}

// NewMachine creates an INPUT-state machine for one account.
func NewMachine(
	logger *slog.Logger,
	p *pipeline.Pipeline,
	led *ledger.Service,
	emitter events.EventEmitter,
	accountID uuid.UUID,
	timings Timings,
) *Machine {
	return &Machine{
		logger: logger.With(
			slog.String("component", "session_machine"),
			slog.String("account_id", accountID.String()),
		),
		pipeline:  p,
		ledger:    led,
		emitter:   emitter,
		accountID: accountID,
		timings:   timings,
		state:     StateInput,
		outcome:   OutcomeNone,
	}
}

// Submit runs the entitlement gate for a topic and, when accepted, enters
// PROCESSING and launches the generation pipeline. Submissions are accepted
// only from the INPUT state: an active session (PROCESSING or DASHBOARD)
// ignores them until Reset. Gate rejections are reported in the result, not
// as errors.
func (m *Machine) Submit(ctx context.Context, topic string, tierHint domain.Tier) (SubmitResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return SubmitResult{}, domain.ErrEmptyTopic
	}

	m.ledger.ResetDailyCreditsIfNewDay(ctx, m.accountID, tierHint)
	ent := m.ledger.Snapshot(ctx, m.accountID, tierHint)

	m.mu.Lock()
	if m.state != StateInput {
		state := m.state
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "Submission ignored, session already active",
			slog.String("state", string(state)))
		return SubmitResult{}, nil
	}

	if ent.Tier == domain.TierGuest {
		m.mu.Unlock()
		return SubmitResult{Prompt: PromptSignIn}, nil
	}
	if ent.Tier.Metered() {
		if _, err := m.ledger.ConsumeCredit(ctx, m.accountID, tierHint); err != nil {
			m.mu.Unlock()
			return SubmitResult{Prompt: PromptUpgrade}, nil
		}
	}

	m.epoch++
	epoch := m.epoch
	m.state = StateProcessing
	m.topic = topic
	m.tierHint = ent.Tier
	m.progress = 0
	m.logs = nil
	m.pkg = nil
	m.degraded = false
	m.cursor = 0
	m.outcome = OutcomeNone
	m.startTickersLocked(epoch)
	m.mu.Unlock()

	m.emit(ctx, events.TypeSessionStarted, map[string]string{"topic": topic})

	// The pipeline outlives the originating request.
	go m.run(context.WithoutCancel(ctx), epoch, topic)

	return SubmitResult{Accepted: true}, nil
}

// run executes the pipeline and applies its result, unless the session has
// moved on in the meantime.
func (m *Machine) run(ctx context.Context, epoch uint64, topic string) {
	out := m.pipeline.Produce(ctx, topic)
	m.settle(ctx, epoch, out)
}

// settle applies a pipeline outcome: progress snaps to 100, the success log
// line follows after the settle delay, and the DASHBOARD transition after
// the display delay on top. Both the success line and progress=100 are
// observable before the transition.
func (m *Machine) settle(ctx context.Context, epoch uint64, out pipeline.Outcome) {
	m.mu.Lock()
	if m.epoch != epoch || m.state != StateProcessing {
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "Discarding stale pipeline result")
		return
	}

	m.stopTickersLocked()

	if out.Degraded {
		m.logs = append(m.logs, logLineDegradedError, logLineDegradedWarn)
	}
	pkg := out.Package
	m.pkg = &pkg
	m.degraded = out.Degraded
	m.progress = 100
	m.mu.Unlock()

	if out.Degraded {
		m.emit(ctx, events.TypeSessionDegraded, map[string]string{"source": string(out.Source)})
	}

	time.AfterFunc(m.timings.SettleDelay, func() {
		m.mu.Lock()
		if m.epoch != epoch || m.state != StateProcessing {
			m.mu.Unlock()
			return
		}
		m.logs = append(m.logs, logLineSuccess)
		m.mu.Unlock()

		time.AfterFunc(m.timings.DisplayDelay, func() {
			m.mu.Lock()
			if m.epoch != epoch || m.state != StateProcessing {
				m.mu.Unlock()
				return
			}
			m.state = StateDashboard
			m.cursor = 0
			m.outcome = OutcomeNone
			m.mu.Unlock()

			m.emit(ctx, events.TypeSessionReady, nil)
		})
	})
}

// Answer submits the index of the selected option for the current quiz
// question. A correct answer awards XP and schedules the cursor advance; an
// incorrect answer leaves the cursor where it is so the question can be
// retried.
func (m *Machine) Answer(ctx context.Context, optionIndex int) (Outcome, error) {
	m.mu.Lock()
	if m.state != StateDashboard || m.pkg == nil {
		m.mu.Unlock()
		return OutcomeNone, ErrNoDashboard
	}

	question := m.pkg.QuestionAt(m.cursor)
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		m.mu.Unlock()
		return OutcomeNone, domain.ErrInvalidOptionIndex
	}

	cursor := m.cursor
	lastQuestion := cursor >= len(m.pkg.Quiz)-1
	correct := question.Options[optionIndex].Correct

	if !correct {
		m.outcome = OutcomeIncorrect
		m.mu.Unlock()

		m.emit(ctx, events.TypeQuizAnswered, answerPayload(cursor, false))
		return OutcomeIncorrect, nil
	}

	m.outcome = OutcomeCorrect
	epoch := m.epoch
	hint := m.tierHint
	m.mu.Unlock()

	m.ledger.AwardXP(ctx, m.accountID, hint, domain.XPPerCorrectAnswer)
	m.emit(ctx, events.TypeQuizAnswered, answerPayload(cursor, true))

	if lastQuestion {
		m.emit(ctx, events.TypeQuizCompleted, nil)
		return OutcomeCorrect, nil
	}

	// The outcome stays visible during the delay; it is cleared exactly when
	// the cursor advances.
	time.AfterFunc(m.timings.AdvanceDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.epoch != epoch || m.state != StateDashboard || m.cursor != cursor {
			return
		}
		m.cursor++
		m.outcome = OutcomeNone
	})

	return OutcomeCorrect, nil
}

// Reset returns the machine to INPUT from any state, tearing down tickers
// and discarding the active package. It never touches the entitlement
// ledger.
func (m *Machine) Reset(ctx context.Context) {
	m.mu.Lock()
	m.epoch++
	m.stopTickersLocked()
	m.state = StateInput
	m.topic = ""
	m.progress = 0
	m.logs = nil
	m.pkg = nil
	m.degraded = false
	m.cursor = 0
	m.outcome = OutcomeNone
	m.mu.Unlock()

	m.emit(ctx, events.TypeSessionReset, nil)
}

// Snapshot returns a copy of the observable state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		State:           m.state,
		Topic:           m.topic,
		ProgressPercent: m.progress,
		LogMessages:     append([]string(nil), m.logs...),
		QuizCursor:      m.cursor,
		LastOutcome:     m.outcome,
		Degraded:        m.degraded,
	}
	if m.pkg != nil {
		pkg := *m.pkg
		snap.Package = &pkg
	}
	return snap
}

// emit publishes a session event; emission failures are logged and dropped.
func (m *Machine) emit(ctx context.Context, eventType string, payload interface{}) {
	if m.emitter == nil {
		return
	}
	event, err := events.NewSessionEvent(eventType, m.accountID, payload)
	if err != nil {
		m.logger.WarnContext(ctx, "Failed to build session event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := m.emitter.EmitEvent(ctx, event); err != nil {
		m.logger.WarnContext(ctx, "Failed to emit session event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

func answerPayload(cursor int, correct bool) map[string]interface{} {
	return map[string]interface{}{
		"question": cursor,
		"correct":  correct,
	}
}
