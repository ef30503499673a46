package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
)

// FeedClient pulls normalized result rows from an external provider feed.
type FeedClient interface {
	FetchResults(ctx context.Context, provider string, since time.Time) ([]game.ProviderRecord, error)
}

// FeedService drives pull-based ingestion: it fetches a provider's published
// rows from the feed gateway and hands them to the ingest pipeline. Push-based
// ingestion through the HTTP endpoints stays available alongside it.
type FeedService struct {
	feed      FeedClient
	ingestion *IngestionService
	logger    *slog.Logger
}

func NewFeedService(feed FeedClient, ingestion *IngestionService, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedService{
		feed:      feed,
		ingestion: ingestion,
		logger:    logger,
	}
}

func (s *FeedService) PullProvider(ctx context.Context, provider string, since time.Time) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.PullProvider")
	defer span.End()

	provider = strings.TrimSpace(provider)
	if provider == "" {
		return IngestReport{}, fmt.Errorf("%w: provider is required", ErrInvalidInput)
	}
	if s.feed == nil {
		return IngestReport{}, fmt.Errorf("%w: provider feed is not configured", ErrDependencyUnavailable)
	}

	records, err := s.feed.FetchResults(ctx, provider, since)
	if err != nil {
		return IngestReport{}, fmt.Errorf("pull provider %s: %w", provider, err)
	}

	s.logger.InfoContext(ctx, "provider feed pulled",
		"provider", provider,
		"since", since,
		"records", len(records),
	)

	return s.ingestion.IngestProviderBatch(ctx, provider, records)
}
