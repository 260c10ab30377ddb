package memory

import (
	"context"
	"sync"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/result"
)

type ResultRepository struct {
	mu    sync.RWMutex
	items map[string]result.MatchResult
}

func NewResultRepository(rows []result.MatchResult) *ResultRepository {
	r := &ResultRepository{items: make(map[string]result.MatchResult, len(rows))}
	for _, res := range rows {
		r.items[res.MatchID] = res
	}
	return r
}

func (r *ResultRepository) Upsert(_ context.Context, res result.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[res.MatchID] = res
	return nil
}

func (r *ResultRepository) GetByMatchID(_ context.Context, matchID string) (result.MatchResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[matchID]
	return res, ok, nil
}

func (r *ResultRepository) FindByTeams(_ context.Context, normalizedHome, normalizedAway string, around time.Time, window time.Duration) ([]result.MatchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []result.MatchResult
	for _, res := range r.items {
		if res.NormalizedHome != normalizedHome || res.NormalizedAway != normalizedAway {
			continue
		}
		diff := res.Kickoff.Sub(around)
		if diff < 0 {
			diff = -diff
		}
		if diff <= window {
			out = append(out, res)
		}
	}
	return out, nil
}
