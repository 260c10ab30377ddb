package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/result"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
	"github.com/crocodileps/oddsedge/internal/platform/names"
)

// IngestService receives rows from the external collectors: odds snapshots
// append-only, match results as idempotent upserts.
type IngestService struct {
	oddsRepo   odds.Repository
	resultRepo result.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewIngestService(oddsRepo odds.Repository, resultRepo result.Repository, logger *logging.Logger) *IngestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestService{
		oddsRepo:   oddsRepo,
		resultRepo: resultRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// AppendOdds stores one collector observation.
func (s *IngestService) AppendOdds(ctx context.Context, snap odds.Snapshot) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestService.AppendOdds")
	defer span.End()

	if strings.TrimSpace(snap.MatchID) == "" || strings.TrimSpace(snap.Bookmaker) == "" {
		return ErrInvalidInput
	}
	snap.Bookmaker = strings.ToLower(strings.TrimSpace(snap.Bookmaker))
	if snap.CollectedAt.IsZero() {
		snap.CollectedAt = s.now().UTC()
	}

	if err := s.oddsRepo.Append(ctx, snap); err != nil {
		return fmt.Errorf("append odds snapshot: %w", err)
	}
	return nil
}

// UpsertResult stores a finished match outcome. Replays from the collector
// are safe: the row is keyed by match id.
func (s *IngestService) UpsertResult(ctx context.Context, res result.MatchResult) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestService.UpsertResult")
	defer span.End()

	if strings.TrimSpace(res.MatchID) == "" || res.Kickoff.IsZero() {
		return ErrInvalidInput
	}
	if res.HomeScore < 0 || res.AwayScore < 0 {
		return ErrInvalidInput
	}
	res.NormalizedHome = names.Normalize(res.HomeTeam)
	res.NormalizedAway = names.Normalize(res.AwayTeam)
	if res.NormalizedHome == "" || res.NormalizedAway == "" {
		return ErrInvalidInput
	}

	if err := s.resultRepo.Upsert(ctx, res); err != nil {
		return fmt.Errorf("upsert match result: %w", err)
	}
	s.logger.DebugContext(ctx, "match result stored",
		"match_id", res.MatchID,
		"score", fmt.Sprintf("%d-%d", res.HomeScore, res.AwayScore),
		"finished", res.Finished,
	)
	return nil
}
