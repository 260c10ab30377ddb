package team

import "strings"

const (
	TierS = "S"
	TierA = "A"
	TierB = "B"
	TierC = "C"
	TierD = "D"
)

const (
	StyleBalanced        = "balanced"
	StylePressing        = "pressing"
	StylePossession      = "possession"
	StyleLowBlockCounter = "low_block_counter"
	StyleDirect          = "direct"

	TempoMedium = "medium_pace"
)

// Team is the slowly-changing reference row for one club. All rates are
// per-90 figures maintained by the external collectors; this service only
// reads them.
type Team struct {
	Name            string
	NormalizedName  string
	League          string
	Tier            string
	PlayingStyle    string
	Tempo           string
	HomeScoredP90   float64
	HomeConcededP90 float64
	AwayScoredP90   float64
	AwayConcededP90 float64
	BTTSPct         float64
	Over25Pct       float64
	LastFiveForm    string
	MatchesPlayed   int
}

// TierRank maps the power-index bucket onto a numeric scale, S=5 down to D=1.
// Unknown tiers land in the middle of the scale.
func TierRank(tier string) int {
	switch strings.ToUpper(strings.TrimSpace(tier)) {
	case TierS:
		return 5
	case TierA:
		return 4
	case TierB:
		return 3
	case TierC:
		return 2
	case TierD:
		return 1
	default:
		return 3
	}
}

// FormMomentum scores the last-5 form string: a win counts 1, a draw 0.5.
func FormMomentum(form string) float64 {
	momentum := 0.0
	for _, r := range strings.ToUpper(strings.TrimSpace(form)) {
		switch r {
		case 'W':
			momentum += 1
		case 'D':
			momentum += 0.5
		}
	}
	return momentum
}
