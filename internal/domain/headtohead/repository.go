package headtohead

import "context"

type Repository interface {
	Get(ctx context.Context, teamA, teamB string) (Record, bool, error)
}
