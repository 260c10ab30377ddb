package result

import (
	"context"
	"time"
)

// Repository stores match outcomes. Upsert is keyed by match id so the
// collector can replay safely. FindByTeams matches on normalized names
// inside a window centered on the stored kickoff, never the wall clock.
type Repository interface {
	Upsert(ctx context.Context, res MatchResult) error
	GetByMatchID(ctx context.Context, matchID string) (MatchResult, bool, error)
	FindByTeams(ctx context.Context, normalizedHome, normalizedAway string, around time.Time, window time.Duration) ([]MatchResult, error)
}
