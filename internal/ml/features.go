package ml

import (
	"github.com/crocodileps/oddsedge/internal/domain/features"
)

// FeatureCount is the width of the classifier's input vector. Artifacts
// declaring any other width are rejected at load time.
const FeatureCount = 25

// FeatureNames fixes the vector ordering the persisted model was fitted
// on. Index i of a vector always carries FeatureNames[i].
var FeatureNames = [FeatureCount]string{
	"implied_prob",
	"odds_taken",
	"diamond_score",
	"edge_pct",
	"ev_expected",
	"predicted_prob",
	"hours_before_match",
	"tier_diff",
	"momentum_diff",
	"league_mismatch",
	"home_attack_p90",
	"home_defense_p90",
	"away_attack_p90",
	"away_defense_p90",
	"h2h_matches",
	"h2h_avg_goals",
	"h2h_btts_pct",
	"tactical_btts_prob",
	"tactical_over25_prob",
	"tactical_confidence",
	"injury_xg_home",
	"injury_xg_away",
	"coach_winrate_diff",
	"referee_goals_avg",
	"steam_move_bps",
}

// PickContext carries the pick-level scalars that join the bundle-derived
// features in the vector.
type PickContext struct {
	ImpliedProb      float64
	OddsTaken        float64
	DiamondScore     float64
	EdgePct          float64
	EVExpected       float64
	PredictedProb    float64
	HoursBeforeMatch float64
	SteamMoveBps     float64
}

// Vector assembles the ordered feature vector from an assembled bundle and
// the candidate pick's context.
func Vector(b *features.Bundle, pc PickContext) [FeatureCount]float64 {
	var v [FeatureCount]float64

	v[0] = pc.ImpliedProb
	v[1] = pc.OddsTaken
	v[2] = pc.DiamondScore
	v[3] = pc.EdgePct
	v[4] = pc.EVExpected
	v[5] = pc.PredictedProb
	v[6] = pc.HoursBeforeMatch

	v[7] = float64(b.TierDiff)
	v[8] = b.MomentumDiff
	if b.LeagueMismatch {
		v[9] = 1
	}
	v[10] = b.Home.HomeScoredP90
	v[11] = b.Home.HomeConcededP90
	v[12] = b.Away.AwayScoredP90
	v[13] = b.Away.AwayConcededP90

	if b.H2H != nil {
		v[14] = float64(b.H2H.TotalMatches)
		v[15] = b.H2H.AvgGoals
		v[16] = b.H2H.BTTSPct
	}

	v[17] = b.Matchup.BTTSProb
	v[18] = b.Matchup.Over25Prob
	v[19] = b.Matchup.Confidence

	v[20], v[21] = b.UnavailableXGShare()

	if b.HomeCoach != nil && b.AwayCoach != nil {
		v[22] = b.HomeCoach.WinRate - b.AwayCoach.WinRate
	}
	if b.Referee != nil {
		v[23] = b.Referee.AvgGoalsMatch
	}
	v[24] = pc.SteamMoveBps

	return v
}
