package generation

import (
	"github.com/chridipi/synapse-engine/internal/domain"
)

// Default content substituted by the normalizer when a generated package
// omits optional sections. The schedule mirrors the curated template so a
// degraded dashboard still renders a plausible plan.
var (
	defaultNotes = []string{
		"Appunti non disponibili per questo argomento.",
		"Consulta il riassunto e la videolezione collegata.",
	}

	defaultSchedule = []domain.ScheduleItem{
		{Time: "14:00", Task: "Visione Videolezione", Details: "Guarda il video allegato prendendo appunti.", Duration: "25 min"},
		{Time: "14:30", Task: "Lettura Riassunto", Details: "Rileggi il riassunto generato.", Duration: "15 min"},
		{Time: "14:50", Task: "Quiz di Verifica", Details: "Completa il quiz per consolidare.", Duration: "10 min"},
	}
)

// Result is the tagged input of Normalize: exactly one of curated,
// generated, or failure is set. Construct values with CuratedResult,
// GeneratedResult, or FailureResult.
type Result struct {
	curated   *domain.StudyPackage
	generated *GeneratedPackage
	failure   error
}

// CuratedResult wraps an already-canonical package from the knowledge base.
func CuratedResult(pkg domain.StudyPackage) Result {
	return Result{curated: &pkg}
}

// GeneratedResult wraps a parsed provider response.
func GeneratedResult(pkg *GeneratedPackage) Result {
	return Result{generated: pkg}
}

// FailureResult records that every acquisition path failed.
func FailureResult(err error) Result {
	return Result{failure: err}
}

// Failed reports whether the result carries no content at all.
func (r Result) Failed() bool {
	return r.curated == nil && r.generated == nil
}

// Normalize converts any acquisition result into a canonical StudyPackage.
// It never fails: structural anomalies in the input degrade to the terminal
// error package instead of propagating. Generated packages carry the media
// reference the caller resolved and get default notes and schedule when those
// sections are absent.
func Normalize(r Result, mediaReference string) domain.StudyPackage {
	switch {
	case r.curated != nil:
		pkg := *r.curated
		if pkg.Validate() != nil {
			return ErrorPackage()
		}
		return pkg

	case r.generated != nil:
		pkg := domain.StudyPackage{
			MediaReference: mediaReference,
			Summary:        r.generated.Summary,
			Notes:          r.generated.Notes,
			Schedule:       r.generated.Schedule,
			Quiz:           []domain.QuizQuestion(r.generated.Quiz),
		}
		if len(pkg.Notes) == 0 {
			pkg.Notes = append([]string(nil), defaultNotes...)
		}
		if len(pkg.Schedule) == 0 {
			pkg.Schedule = append([]domain.ScheduleItem(nil), defaultSchedule...)
		}
		if pkg.Validate() != nil {
			return ErrorPackage()
		}
		return pkg

	default:
		return ErrorPackage()
	}
}

// ErrorPackage returns the deterministic terminal error package presented
// when no usable content could be produced. Its single quiz question is the
// sanctioned non-answerable placeholder: it renders, but cannot be answered
// correctly.
func ErrorPackage() domain.StudyPackage {
	return domain.StudyPackage{
		MediaReference: domain.FallbackMediaReference,
		Summary:        "Errore durante il recupero dei dati. Riprova più tardi.",
		Notes:          []string{"Il sistema non è riuscito a generare gli appunti."},
		Schedule:       nil,
		Quiz: []domain.QuizQuestion{
			{
				Question: "Errore di sistema: contenuto non disponibile.",
				Options:  []domain.QuizOption{{Text: "Riprova più tardi", Correct: false}},
				Hint:     "Riavvia la sessione per riprovare.",
			},
		},
	}
}
