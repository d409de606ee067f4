package domain

import (
	"errors"
	"net/url"
)

// StudyPackage-specific validation errors.
var (
	// ErrNoQuizQuestions is returned when a study package carries no quiz.
	ErrNoQuizQuestions = errors.New("study package must contain at least one quiz question")

	// ErrNoQuizOptions is returned when a quiz question has no options.
	ErrNoQuizOptions = errors.New("quiz question must contain at least one option")

	// ErrAmbiguousAnswer is returned when a quiz question marks more than
	// one option as correct.
	ErrAmbiguousAnswer = errors.New("quiz question must mark exactly one option correct")

	// ErrEmptySummary is returned when a study package has no summary text.
	ErrEmptySummary = errors.New("study package summary cannot be empty")
)

// FallbackMediaReference is the safe media reference used by terminal error
// packages when no other reference is available. It points at the curated
// physics lecture, which is known to exist.
const FallbackMediaReference = "Y9EjnBmO2Jw"

// SearchMediaReference builds the search-style form of a media reference from
// a free-text query. The player interprets it as "search and play the first
// match", so it stays meaningful for any topic when no concrete video is
// known.
func SearchMediaReference(query string) string {
	return "?listType=search&list=" + url.QueryEscape(query)
}

// QuizOption is a single selectable answer for a quiz question.
type QuizOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// QuizQuestion is one multiple-choice question of a study package quiz.
// A well-formed question has at least one option and exactly one option
// marked correct. A question with options but no correct option is the
// sanctioned non-answerable placeholder produced by terminal error packages.
type QuizQuestion struct {
	Question string       `json:"question"`
	Options  []QuizOption `json:"options"`
	Hint     string       `json:"hint"`
}

// CorrectIndex returns the index of the option marked correct, or -1 when
// the question is the non-answerable placeholder.
func (q QuizQuestion) CorrectIndex() int {
	for i, opt := range q.Options {
		if opt.Correct {
			return i
		}
	}
	return -1
}

// Answerable reports whether the question has an option that can be answered
// correctly.
func (q QuizQuestion) Answerable() bool {
	return q.CorrectIndex() >= 0
}

// Validate checks the question invariants. A single-option question with no
// correct option is accepted as the non-answerable placeholder.
func (q QuizQuestion) Validate() error {
	if len(q.Options) == 0 {
		return ErrNoQuizOptions
	}

	correct := 0
	for _, opt := range q.Options {
		if opt.Correct {
			correct++
		}
	}

	if correct > 1 {
		return ErrAmbiguousAnswer
	}

	return nil
}

// ScheduleItem is one entry of the generated study schedule. Times and
// durations are display strings; no temporal validation is applied.
type ScheduleItem struct {
	Time     string `json:"time"`
	Task     string `json:"task"`
	Details  string `json:"details,omitempty"`
	Duration string `json:"duration"`
}

// StudyPackage is the canonical result shape produced for a topic: a media
// reference, a summary, ordered notes, a display-ordered study schedule, and
// a quiz of at least one question.
type StudyPackage struct {
	MediaReference string         `json:"media_reference"`
	Summary        string         `json:"summary"`
	Notes          []string       `json:"notes"`
	Schedule       []ScheduleItem `json:"schedule"`
	Quiz           []QuizQuestion `json:"quiz"`
}

// Validate checks the package invariants: a non-empty summary, at least one
// quiz question, and every question valid per QuizQuestion.Validate.
func (p *StudyPackage) Validate() error {
	if p.Summary == "" {
		return ErrEmptySummary
	}

	if len(p.Quiz) == 0 {
		return ErrNoQuizQuestions
	}

	for _, q := range p.Quiz {
		if err := q.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// QuestionAt returns the quiz question at the given cursor, clamped to the
// quiz bounds. The quiz is never empty on a valid package.
func (p *StudyPackage) QuestionAt(cursor int) QuizQuestion {
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(p.Quiz) {
		cursor = len(p.Quiz) - 1
	}
	return p.Quiz[cursor]
}
