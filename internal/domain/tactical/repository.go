package tactical

import "context"

type Repository interface {
	Get(ctx context.Context, styleHome, styleAway string) (Matchup, bool, error)
	ListAll(ctx context.Context) ([]Matchup, error)
}
