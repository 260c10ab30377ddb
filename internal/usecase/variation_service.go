package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/variation"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
)

const defaultControlShare = 0.2

// VariationService routes picks across experiment arms with Thompson
// sampling. The control arm keeps a fixed traffic share so the baseline
// stays measurable even when a challenger's posterior runs hot.
type VariationService struct {
	repo         variation.Repository
	sampler      *variation.Sampler
	rng          *rand.Rand
	mu           sync.Mutex
	controlShare float64
	logger       *logging.Logger
	now          func() time.Time
}

func NewVariationService(repo variation.Repository, rng *rand.Rand, logger *logging.Logger) *VariationService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &VariationService{
		repo:         repo,
		sampler:      variation.NewSampler(rng),
		rng:          rng,
		controlShare: defaultControlShare,
		logger:       logger,
		now:          time.Now,
	}
}

// Choose selects the arm for the next pick. The boolean is false when no
// arms are active, in which case the caller runs the baseline engine.
func (s *VariationService) Choose(ctx context.Context) (variation.Variation, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VariationService.Choose")
	defer span.End()

	arms, err := s.repo.ListActive(ctx)
	if err != nil {
		return variation.Variation{}, false, fmt.Errorf("list active variations: %w", err)
	}
	if len(arms) == 0 {
		return variation.Variation{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.controlIndex(arms); idx >= 0 && s.rng.Float64() < s.controlShare {
		return arms[idx], true, nil
	}

	chosen := s.sampler.Pick(arms)
	if chosen < 0 {
		return variation.Variation{}, false, nil
	}
	return arms[chosen], true, nil
}

func (s *VariationService) controlIndex(arms []variation.Variation) int {
	for i, a := range arms {
		if a.IsControl {
			return i
		}
	}
	return -1
}

// RecordAssignment persists which arm produced a pick.
func (s *VariationService) RecordAssignment(ctx context.Context, matchID, variationID, pickID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.VariationService.RecordAssignment")
	defer span.End()

	a := variation.Assignment{
		MatchID:     matchID,
		VariationID: variationID,
		PickID:      pickID,
		AssignedAt:  s.now().UTC(),
	}
	if err := s.repo.SaveAssignment(ctx, a); err != nil {
		return fmt.Errorf("save variation assignment: %w", err)
	}
	return nil
}
