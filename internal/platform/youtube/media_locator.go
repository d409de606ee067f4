package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/chridipi/synapse-engine/internal/generation"
)

// MediaLocator resolves search queries to video identifiers through the
// YouTube Data API.
type MediaLocator struct {
	logger  *slog.Logger
	service *youtube.Service
}

var _ generation.MediaLocator = (*MediaLocator)(nil)

// NewMediaLocator creates a locator backed by the YouTube Data API. The API
// key is required; quota and transport failures surface per-call, not here.
func NewMediaLocator(ctx context.Context, logger *slog.Logger, apiKey string) (*MediaLocator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: youtube API key is empty", generation.ErrNoCredential)
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create YouTube service: %v", generation.ErrInvalidConfig, err)
	}

	return &MediaLocator{
		logger:  logger.With(slog.String("component", "youtube_locator")),
		service: service,
	}, nil
}

// LocateMedia searches YouTube for the query and returns the identifier of
// the top video result. It returns generation.ErrNoMediaFound when the
// search yields nothing playable.
func (l *MediaLocator) LocateMedia(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", fmt.Errorf("%w: empty search query", generation.ErrNoMediaFound)
	}

	resp, err := l.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("youtube search failed: %w", err)
	}

	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			l.logger.DebugContext(ctx, "Resolved media reference",
				slog.String("query", query),
				slog.String("video_id", item.Id.VideoId))
			return item.Id.VideoId, nil
		}
	}

	return "", fmt.Errorf("%w: %q", generation.ErrNoMediaFound, query)
}
