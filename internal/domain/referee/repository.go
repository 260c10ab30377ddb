package referee

import "context"

type Repository interface {
	GetByNormalizedName(ctx context.Context, name string) (Referee, bool, error)
}
