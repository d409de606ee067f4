package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/generation"
)

// DefaultBaseURL is the OpenRouter chat-completions endpoint used when the
// configuration does not override it (tests point it at a local server).
const DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

// chatRequest is the OpenAI-compatible request body OpenRouter expects.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse covers the slice of the response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Generator implements generation.Generator against the OpenRouter API.
type Generator struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	siteURL    string
	siteName   string
	maxRetries int
	retryDelay time.Duration
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates an OpenRouter-backed generator. The configuration
// must carry an API key and a model identifier; base URL and attribution
// headers are optional.
func NewGenerator(logger *slog.Logger, cfg config.GenerationConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("%w: openrouter API key is empty", generation.ErrNoCredential)
	}
	if cfg.OpenRouterModel == "" {
		return nil, fmt.Errorf("%w: openrouter model cannot be empty", generation.ErrInvalidConfig)
	}

	baseURL := cfg.OpenRouterBaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 2
	}
	retryDelaySeconds := cfg.RetryDelaySeconds
	if retryDelaySeconds < 1 {
		retryDelaySeconds = 1
	}

	return &Generator{
		logger:     logger.With(slog.String("component", "openrouter_generator")),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     cfg.OpenRouterAPIKey,
		model:      cfg.OpenRouterModel,
		siteURL:    cfg.SiteURL,
		siteName:   cfg.SiteName,
		maxRetries: maxRetries,
		retryDelay: time.Duration(retryDelaySeconds) * time.Second,
	}, nil
}

// GeneratePackage sends the topic to OpenRouter and parses the model's JSON
// reply into a GeneratedPackage. Server-side errors (HTTP 5xx and 429) are
// retried; client errors and malformed payloads are not.
func (g *Generator) GeneratePackage(ctx context.Context, topic string) (*generation.GeneratedPackage, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: topic cannot be empty", generation.ErrGenerationFailed)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		g.logger.InfoContext(ctx, "Making OpenRouter API call",
			"attempt", attempt+1,
			"max_attempts", g.maxRetries+1,
			"model", g.model)

		content, err := g.call(ctx, topic)
		if err == nil {
			pkg, parseErr := generation.ParsePackage(content)
			if parseErr != nil {
				g.logger.ErrorContext(ctx, "Failed to parse OpenRouter response",
					slog.String("error", parseErr.Error()))
				return nil, parseErr
			}
			return pkg, nil
		}
		lastErr = err

		if !errors.Is(err, generation.ErrTransientFailure) {
			return nil, err
		}
		if attempt == g.maxRetries {
			break
		}

		delay := g.retryDelay << attempt
		g.logger.WarnContext(ctx, "OpenRouter call failed, retrying",
			"error", err.Error(),
			"delay", delay.String())

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, ctx.Err())
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("%w: exhausted %d attempts: %v",
		generation.ErrGenerationFailed, g.maxRetries+1, lastErr)
}

func (g *Generator) call(ctx context.Context, topic string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: generation.SystemInstruction},
			{Role: "user", Content: "Argomento: " + topic},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", generation.ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %v", generation.ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if g.siteURL != "" {
		req.Header.Set("HTTP-Referer", g.siteURL)
	}
	if g.siteName != "" {
		req.Header.Set("X-Title", g.siteName)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", generation.ErrTransientFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: HTTP %d from OpenRouter", generation.ErrTransientFailure, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: HTTP %d from OpenRouter", generation.ErrGenerationFailed, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", generation.ErrGenerationFailed, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}
