package knowledge

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/chridipi/synapse-engine/internal/domain"
)

// Resolver maps a free-text topic to a curated study package, or synthesizes
// a generic one when no curated keyword matches. Resolution never fails.
type Resolver struct {
	logger *slog.Logger

	// keys holds the curated keywords in lexicographic order. Two keywords
	// can both be substrings of one topic ("storia" and "napoleone" in
	// "storia di napoleone" both match); the scan is over sorted keys so the
	// winner is deterministic: the lexicographically smallest match.
	keys []string
}

// NewResolver creates a Resolver over the built-in curated base.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	keys := make([]string, 0, len(curatedBase))
	for k := range curatedBase {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Resolver{
		logger: logger.With(slog.String("component", "knowledge_resolver")),
		keys:   keys,
	}
}

// Resolve returns a complete study package for the topic. A curated entry is
// used when its keyword is a substring of the normalized topic; otherwise a
// generic package is synthesized around the topic text.
func (r *Resolver) Resolve(topic string) domain.StudyPackage {
	normalized := domain.NormalizeTopic(topic)

	for _, key := range r.keys {
		if strings.Contains(normalized, key) {
			entry := curatedBase[key]
			r.logger.Debug("resolved curated entry",
				slog.String("keyword", key),
				slog.String("media_id", entry.mediaID))
			return r.buildPackage(topic, entry)
		}
	}

	r.logger.Debug("no curated match, synthesizing package",
		slog.String("topic", normalized))
	return r.buildPackage(topic, synthesizeEntry(topic))
}

// Keywords returns the curated keywords in scan order.
func (r *Resolver) Keywords() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// buildPackage composes the canonical package from a curated or synthesized
// entry: summary and quiz from the entry, notes and schedule from the
// standard study-session template.
func (r *Resolver) buildPackage(topic string, entry curatedEntry) domain.StudyPackage {
	subject := topic
	if strings.TrimSpace(subject) == "" {
		subject = "Argomento"
	}

	return domain.StudyPackage{
		MediaReference: entry.mediaID,
		Summary:        entry.summary,
		Notes: []string{
			fmt.Sprintf("Concetti chiave su: %s", subject),
			fmt.Sprintf("Analisi approfondita di: %s", entry.title),
			"Sintesi dei punti fondamentali",
			"Collegamenti interdisciplinari rilevati",
		},
		Schedule: []domain.ScheduleItem{
			{Time: "15:00", Task: fmt.Sprintf("Studio Intensivo: %s", subject), Details: "Lettura e sottolineatura testo", Duration: "45m"},
			{Time: "15:45", Task: "Active Recall & Quiz", Details: "Test di autovalutazione", Duration: "15m"},
			{Time: "16:00", Task: "Analisi Video & Sintesi", Details: "Visione materiale multimediale", Duration: "30m"},
		},
		Quiz: []domain.QuizQuestion{entry.quiz},
	}
}

// synthesizeEntry builds the generic fallback entry for an unrecognized topic:
// a search-style media reference encoding the topic and a single-question quiz
// whose correct option directs the user back to the video.
func synthesizeEntry(topic string) curatedEntry {
	return curatedEntry{
		mediaID: domain.SearchMediaReference(topic + " spiegazione scuola"),
		title:   fmt.Sprintf("Ricerca approfondita: %s", topic),
		summary: fmt.Sprintf("Generazione sintesi automatica per: %s. L'argomento richiede un'analisi approfondita delle fonti video correlate. Consulta il video per i dettagli specifici e prendi appunti sui concetti chiave.", topic),
		quiz: domain.QuizQuestion{
			Question: fmt.Sprintf("Qual è il concetto principale riguardo %q?", topic),
			Options: []domain.QuizOption{
				{Text: "Concetto A (Vedi Video)", Correct: true},
				{Text: "Concetto B", Correct: false},
				{Text: "Concetto C", Correct: false},
			},
			Hint: "Guarda i primi 2 minuti del video per la risposta.",
		},
	}
}
