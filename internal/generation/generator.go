package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chridipi/synapse-engine/internal/domain"
)

// SystemInstruction is the fixed instruction sent to every generation
// provider. It pins the response to a strict JSON contract so the parsed
// result maps directly onto GeneratedPackage.
const SystemInstruction = `Sei un tutor scolastico esperto. Rispondi SOLO con un oggetto JSON valido, senza testo aggiuntivo e senza markdown. Lo schema richiesto è: {"summary": "string (riassunto dettagliato dell'argomento in italiano)", "notes": ["string (4 appunti chiave)"], "videoSearchQuery": "string (query di ricerca YouTube in italiano per una videolezione sull'argomento)", "planner": [{"time": "string", "task": "string", "details": "string", "duration": "string"}], "quiz": [{"question": "string", "options": [{"text": "string", "correct": boolean}], "hint": "string"}]}. Il quiz deve contenere esattamente 5 domande, ognuna con esattamente 3 opzioni di cui una sola corretta. Tutti i contenuti devono essere in italiano.`

// Generator defines the interface for generating a study package from a
// topic. This interface serves as a boundary between the application core
// and external AI/LLM services, following the hexagonal architecture
// pattern.
type Generator interface {
	// GeneratePackage creates a study package draft for the provided topic.
	// It returns the parsed provider response or an error if generation
	// fails for any reason (see errors.go for specific types).
	GeneratePackage(ctx context.Context, topic string) (*GeneratedPackage, error)
}

// MediaLocator resolves a free-text search query to a single playable media
// reference. Implementations return ErrNoMediaFound when nothing matches.
type MediaLocator interface {
	LocateMedia(ctx context.Context, query string) (string, error)
}

// GeneratedPackage is the raw shape produced by a generation provider,
// before normalization into the canonical domain.StudyPackage.
type GeneratedPackage struct {
	Summary         string                `json:"summary"`
	Notes           []string              `json:"notes"`
	MediaSearchHint string                `json:"videoSearchQuery"`
	Schedule        []domain.ScheduleItem `json:"planner"`
	Quiz            QuizList              `json:"quiz"`
}

// QuizList unmarshals the quiz field leniently: providers occasionally
// return a single question object instead of an array, and that object is
// coerced into a one-element list rather than rejected.
type QuizList []domain.QuizQuestion

func (q *QuizList) UnmarshalJSON(data []byte) error {
	var many []domain.QuizQuestion
	if err := json.Unmarshal(data, &many); err == nil {
		*q = many
		return nil
	}

	var one domain.QuizQuestion
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("%w: quiz is neither an array nor an object", ErrInvalidResponse)
	}
	*q = QuizList{one}
	return nil
}

// StripFence removes a surrounding markdown code fence (```json ... ``` or
// ``` ... ```) from a provider response. Providers routinely wrap JSON
// payloads in fences despite instructions not to.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParsePackage parses a raw provider response into a GeneratedPackage.
// It strips markdown fences, unmarshals the JSON body, and verifies the
// fields the rest of the pipeline cannot work without. Count mismatches
// (fewer than 5 questions, fewer than 3 options) are tolerated; a missing
// summary or an empty quiz is not.
func ParsePackage(raw string) (*GeneratedPackage, error) {
	body := StripFence(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty response body", ErrInvalidResponse)
	}

	var pkg GeneratedPackage
	if err := json.Unmarshal([]byte(body), &pkg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if strings.TrimSpace(pkg.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrInvalidResponse)
	}
	if len(pkg.Quiz) == 0 {
		return nil, fmt.Errorf("%w: missing quiz", ErrInvalidResponse)
	}

	return &pkg, nil
}
