package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/generation"
)

// Generator implements the generation.Generator interface using Google's
// Gemini API to produce study packages for a topic.
type Generator struct {
	logger *slog.Logger
	config config.GenerationConfig
	client *genai.Client
	model  string
}

// Compile-time check that Generator satisfies the generation.Generator interface.
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed generator with the provided
// dependencies. It validates the configuration and initializes the API
// client eagerly so credential problems surface at startup rather than on
// the first session.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.GenerationConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is empty", generation.ErrNoCredential)
	}

	model := cfg.GeminiModel
	if model == "" {
		return nil, fmt.Errorf("%w: gemini model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		config: cfg,
		client: client,
		model:  model,
	}, nil
}

// GeneratePackage requests a study package for the topic from the Gemini
// API, retrying transient failures with exponential backoff, and parses the
// JSON response into a GeneratedPackage.
func (g *Generator) GeneratePackage(ctx context.Context, topic string) (*generation.GeneratedPackage, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: topic cannot be empty", generation.ErrGenerationFailed)
	}

	raw, err := g.callWithRetry(ctx, topic)
	if err != nil {
		return nil, err
	}

	pkg, err := generation.ParsePackage(raw)
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to parse Gemini response",
			slog.String("error", err.Error()))
		return nil, err
	}

	return pkg, nil
}

func (g *Generator) callWithRetry(ctx context.Context, topic string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 2)
		maxRetries = 2
	}

	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 1
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	prompt := generation.SystemInstruction + "\n\nArgomento: " + topic

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		g.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"model", g.model)

		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})

		text, classified := g.extractText(resp, err)
		if classified == nil {
			return text, nil
		}
		lastErr = classified

		if !errors.Is(classified, generation.ErrTransientFailure) {
			return "", classified
		}

		if attempt == maxRetries {
			break
		}

		// Exponential backoff with jitter before the next attempt.
		delay := time.Duration(float64(baseDelaySeconds)*math.Pow(2, float64(attempt)))*time.Second +
			time.Duration(rng.Intn(500))*time.Millisecond
		g.logger.WarnContext(ctx, "Gemini API call failed, retrying",
			"error", classified.Error(),
			"delay", delay.String())

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, ctx.Err())
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("%w: exhausted %d attempts: %v",
		generation.ErrGenerationFailed, maxRetries+1, lastErr)
}

// extractText classifies the API outcome and pulls the text payload out of
// the first candidate. API transport errors are treated as transient; a
// well-formed response with no usable content is not worth retrying.
func (g *Generator) extractText(resp *genai.GenerateContentResponse, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}

	return text, nil
}
