package memory

import (
	"context"
	"sync"

	"github.com/crocodileps/oddsedge/internal/domain/variation"
)

type VariationRepository struct {
	mu          sync.RWMutex
	arms        map[string]variation.Variation
	order       []string
	assignments map[string]variation.Assignment
}

func NewVariationRepository(arms []variation.Variation) *VariationRepository {
	r := &VariationRepository{
		arms:        make(map[string]variation.Variation, len(arms)),
		assignments: make(map[string]variation.Assignment),
	}
	for _, a := range arms {
		r.arms[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r
}

func (r *VariationRepository) ListActive(_ context.Context) ([]variation.Variation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]variation.Variation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.arms[id])
	}
	return out, nil
}

func (r *VariationRepository) GetByID(_ context.Context, id string) (variation.Variation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.arms[id]
	return a, ok, nil
}

func (r *VariationRepository) SaveAssignment(_ context.Context, a variation.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assignments[a.PickID] = a
	return nil
}

func (r *VariationRepository) AssignmentByPick(_ context.Context, pickID string) (variation.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[pickID]
	return a, ok, nil
}

func (r *VariationRepository) RecordOutcome(_ context.Context, variationID string, won bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.arms[variationID]
	if !ok {
		return nil
	}
	if won {
		a.Alpha++
	} else {
		a.Beta++
	}
	r.arms[variationID] = a
	return nil
}
