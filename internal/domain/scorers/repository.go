package scorers

import "context"

// Repository returns a team's top scorers ordered by rank. Implementations
// cap the list at five entries.
type Repository interface {
	TopByTeam(ctx context.Context, normalizedTeam string, limit int) ([]Scorer, error)
}

// AvailabilityFeed is the external injury feed. Absent players default to
// available; feed failures must degrade, not fail the assembly.
type AvailabilityFeed interface {
	UnavailablePlayers(ctx context.Context, normalizedTeam string) (map[string]string, error)
}
