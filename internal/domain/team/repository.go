package team

import "context"

// Repository resolves team reference rows. Lookups are by normalized name;
// FindLoose falls back to a first-token match for slightly different
// spellings between providers.
type Repository interface {
	GetByNormalizedName(ctx context.Context, name string) (Team, bool, error)
	FindLoose(ctx context.Context, firstToken string) (Team, bool, error)
	LeagueMeans(ctx context.Context, league string) (LeagueMeans, bool, error)
}

// LeagueMeans carries per-league averages used for Bayesian shrinkage and
// for filling gaps in incomplete team rows.
type LeagueMeans struct {
	League       string
	ScoredP90    float64
	ConcededP90  float64
	BTTSPct      float64
	Over25Pct    float64
	GoalsPerGame float64
}
