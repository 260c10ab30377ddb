package coach

import "context"

type Repository interface {
	GetByTeam(ctx context.Context, normalizedTeam string) (Profile, bool, error)
}
