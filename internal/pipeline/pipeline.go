// Package pipeline orchestrates study-package acquisition: remote AI
// generation first, the curated knowledge base as fallback. The pipeline
// never fails; a session always receives a renderable package.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/generation"
	"github.com/chridipi/synapse-engine/internal/knowledge"
)

// Source identifies which acquisition path produced a package.
type Source string

const (
	// SourceGenerated means the remote provider produced the package.
	SourceGenerated Source = "generated"

	// SourceKnowledgeBase means the curated knowledge base produced the
	// package, either as a direct hit or a synthesized entry.
	SourceKnowledgeBase Source = "knowledge_base"
)

// Outcome is the result of producing a package for a topic.
type Outcome struct {
	Package domain.StudyPackage
	Source  Source

	// Degraded is true when the remote generation path was unavailable or
	// failed and the knowledge base served the session instead. A missing
	// credential degrades the same way a failed provider call does.
	Degraded bool
}

// Pipeline produces study packages for topics. A nil generator disables
// remote generation; a nil locator disables media enrichment.
type Pipeline struct {
	logger    *slog.Logger
	generator generation.Generator
	locator   generation.MediaLocator
	resolver  *knowledge.Resolver
}

// New creates a pipeline. The resolver is required; generator and locator
// are optional.
func New(logger *slog.Logger, gen generation.Generator, locator generation.MediaLocator, resolver *knowledge.Resolver) *Pipeline {
	return &Pipeline{
		logger:    logger.With(slog.String("component", "generation_pipeline")),
		generator: gen,
		locator:   locator,
		resolver:  resolver,
	}
}

// GenerationEnabled reports whether the pipeline will attempt remote
// generation.
func (p *Pipeline) GenerationEnabled() bool {
	return p.generator != nil
}

// Produce acquires a study package for the topic. It tries the remote
// generator, enriches its media reference through the locator, and falls
// back to the knowledge base when generation is unavailable or fails.
// Produce never returns an error.
func (p *Pipeline) Produce(ctx context.Context, topic string) Outcome {
	if p.generator == nil {
		return p.fallback(ctx, topic, true)
	}

	raw, err := p.generator.GeneratePackage(ctx, topic)
	if err != nil {
		p.logger.WarnContext(ctx, "Remote generation failed, falling back to knowledge base",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return p.fallback(ctx, topic, true)
	}

	located := p.locate(ctx, raw.MediaSearchHint)
	mediaRef := located
	if mediaRef == "" {
		query := raw.MediaSearchHint
		if query == "" {
			query = topic
		}
		mediaRef = domain.SearchMediaReference(query)
	}
	pkg := generation.Normalize(generation.GeneratedResult(raw), mediaRef)

	p.logger.InfoContext(ctx, "Study package generated",
		slog.String("topic", topic),
		slog.Int("quiz_questions", len(pkg.Quiz)),
		slog.Bool("media_resolved", located != ""))

	return Outcome{Package: pkg, Source: SourceGenerated}
}

// locate resolves the provider's search hint to a playable media reference.
// Failures are non-fatal: Produce substitutes a search-style placeholder
// built from the hint or the topic.
func (p *Pipeline) locate(ctx context.Context, hint string) string {
	if p.locator == nil || hint == "" {
		return ""
	}

	ref, err := p.locator.LocateMedia(ctx, hint)
	if err != nil {
		p.logger.WarnContext(ctx, "Media lookup failed",
			slog.String("query", hint),
			slog.String("error", err.Error()))
		return ""
	}
	return ref
}

func (p *Pipeline) fallback(ctx context.Context, topic string, degraded bool) Outcome {
	pkg := p.resolver.Resolve(topic)
	pkg = generation.Normalize(generation.CuratedResult(pkg), "")

	p.logger.InfoContext(ctx, "Study package resolved from knowledge base",
		slog.String("topic", topic),
		slog.Bool("degraded", degraded))

	return Outcome{Package: pkg, Source: SourceKnowledgeBase, Degraded: degraded}
}
