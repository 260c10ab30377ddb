package scoring

import (
	"fmt"
	"math"

	"github.com/crocodileps/oddsedge/internal/domain/coach"
	"github.com/crocodileps/oddsedge/internal/domain/features"
	"github.com/crocodileps/oddsedge/internal/domain/market"
)

// Layer identifiers, also the factor IDs an A/B variation can toggle.
const (
	LayerBase        = "base"
	LayerTactical    = "tactical"
	LayerTeamClass   = "team_class"
	LayerH2H         = "h2h"
	LayerInjuries    = "injuries"
	LayerXG          = "xg"
	LayerCoach       = "coach"
	LayerReferee     = "referee"
	LayerConvergence = "convergence"
)

// AllLayers lists every factor in fold order.
var AllLayers = []string{
	LayerBase, LayerTactical, LayerTeamClass, LayerH2H, LayerInjuries,
	LayerXG, LayerCoach, LayerReferee, LayerConvergence,
}

// Contribution is one layer's signed score delta, its human-readable
// reason, and optional probability nudges applied before calibration.
type Contribution struct {
	Layer     string
	Points    float64
	Reason    string
	ProbDelta map[market.Type]float64
}

// layerFunc is a pure function of the bundle, the target market and the
// current probability state. The orchestrator is the fold over these.
type layerFunc func(b *features.Bundle, target market.TargetMarket, sel market.Type, probs map[market.Type]float64) Contribution

var layerFuncs = map[string]layerFunc{
	LayerBase:        baseLayer,
	LayerTactical:    tacticalLayer,
	LayerTeamClass:   teamClassLayer,
	LayerH2H:         h2hLayer,
	LayerInjuries:    injuriesLayer,
	LayerXG:          xgLayer,
	LayerCoach:       coachLayer,
	LayerReferee:     refereeLayer,
	LayerConvergence: convergenceLayer,
}

func baseLayer(_ *features.Bundle, _ market.TargetMarket, _ market.Type, _ map[market.Type]float64) Contribution {
	return Contribution{Layer: LayerBase, Points: 10, Reason: "baseline prior"}
}

// tacticalLayer rewards a style matchup whose historical rates align with
// the target market, weighted by the matchup row's confidence. Range 0..+15.
func tacticalLayer(b *features.Bundle, target market.TargetMarket, sel market.Type, _ map[market.Type]float64) Contribution {
	m := b.Matchup
	conf := clamp(m.Confidence, 0, 1)

	var alignment float64
	var reason string
	switch target {
	case market.TargetOver25:
		alignment = clamp((m.Over25Prob-0.45)/0.25, 0, 1)
		reason = fmt.Sprintf("matchup over2.5 rate %.2f", m.Over25Prob)
	case market.TargetBTTS:
		alignment = clamp((m.BTTSProb-0.45)/0.25, 0, 1)
		reason = fmt.Sprintf("matchup btts rate %.2f", m.BTTSProb)
	default:
		// Backing a side: a low upset probability means the style pairing
		// favours the stronger team.
		alignment = clamp((0.5-m.UpsetProb)*2, 0, 1)
		if sel == market.Away || sel == market.DCX2 {
			alignment = clamp(m.UpsetProb*2, 0, 1)
		}
		reason = fmt.Sprintf("matchup upset prob %.2f", m.UpsetProb)
	}

	delta := map[market.Type]float64{}
	if target == market.TargetOver25 {
		delta[market.Over25] = conf * 0.15 * (m.Over25Prob - 0.5)
		delta[market.Under25] = -delta[market.Over25]
	}
	if target == market.TargetBTTS {
		delta[market.BTTSYes] = conf * 0.15 * (m.BTTSProb - 0.5)
		delta[market.BTTSNo] = -delta[market.BTTSYes]
	}

	return Contribution{
		Layer:     LayerTactical,
		Points:    15 * conf * alignment,
		Reason:    reason,
		ProbDelta: delta,
	}
}

// teamClassLayer scores the power-index gap between tiers. Range 0..+10.
func teamClassLayer(b *features.Bundle, _ market.TargetMarket, _ market.Type, _ map[market.Type]float64) Contribution {
	gap := b.TierDiff
	if gap < 0 {
		gap = -gap
	}
	points := clamp(float64(gap)*2.5, 0, 10)
	return Contribution{
		Layer:  LayerTeamClass,
		Points: points,
		Reason: fmt.Sprintf("tier gap %d (%s vs %s)", gap, b.Home.Tier, b.Away.Tier),
	}
}

// h2hLayer weighs the meeting history by a log-scaled sample size. Range 0..+8.
func h2hLayer(b *features.Bundle, target market.TargetMarket, sel market.Type, _ map[market.Type]float64) Contribution {
	if b.H2H == nil || b.H2H.TotalMatches == 0 {
		return Contribution{Layer: LayerH2H, Points: 0, Reason: "no head-to-head history"}
	}
	h := b.H2H
	weight := clamp(math.Log1p(float64(h.TotalMatches))/math.Log1p(10), 0, 1)

	var alignment float64
	switch target {
	case market.TargetOver25:
		alignment = clamp((h.AvgGoals-2.2)/1.3, 0, 1)
	case market.TargetBTTS:
		alignment = clamp((h.BTTSPct-0.45)/0.30, 0, 1)
	default:
		wins := h.HomeWins
		if sel == market.Away || sel == market.DCX2 {
			wins = h.AwayWins
		}
		alignment = clamp(float64(2*wins-h.TotalMatches)/float64(h.TotalMatches), 0, 1)
	}

	return Contribution{
		Layer:  LayerH2H,
		Points: 8 * weight * alignment,
		Reason: fmt.Sprintf("%d meetings, %.1f avg goals", h.TotalMatches, h.AvgGoals),
	}
}

// injuriesLayer penalizes missing top scorers by their xG share. Range -8..0.
func injuriesLayer(b *features.Bundle, target market.TargetMarket, sel market.Type, _ map[market.Type]float64) Contribution {
	shareHome, shareAway := b.UnavailableXGShare()

	var weighted float64
	switch target {
	case market.TargetOver25, market.TargetBTTS:
		weighted = shareHome + shareAway
	default:
		// Backing a side: only that side's missing output hurts the pick.
		weighted = shareHome
		if sel == market.Away || sel == market.DCX2 {
			weighted = shareAway
		}
	}

	points := -8 * clamp(weighted, 0, 1)
	reason := "all top scorers available"
	if points < 0 {
		reason = fmt.Sprintf("missing scorers carry %.0f%% of xG", weighted*100)
	}
	return Contribution{Layer: LayerInjuries, Points: points, Reason: reason}
}

// xgLayer scores the Bayesian-shrunk expected-goals picture against the
// league mean. Range -5..+5.
func xgLayer(b *features.Bundle, target market.TargetMarket, sel market.Type, _ map[market.Type]float64) Contribution {
	lambdaHome, lambdaAway := ExpectedGoals(b)

	var points float64
	var reason string
	switch target {
	case market.TargetOver25, market.TargetBTTS:
		total := lambdaHome + lambdaAway
		points = clamp((total-b.Means.GoalsPerGame)*2.5, -5, 5)
		reason = fmt.Sprintf("shrunk total xG %.2f vs league %.2f", total, b.Means.GoalsPerGame)
	default:
		gap := lambdaHome - lambdaAway
		if sel == market.Away || sel == market.DCX2 {
			gap = -gap
		}
		points = clamp(gap*3.3, -5, 5)
		reason = fmt.Sprintf("shrunk xG gap %.2f", gap)
	}
	return Contribution{Layer: LayerXG, Points: points, Reason: reason}
}

// coachLayer scores coach tendencies against the target. Range -1.5..+3.
func coachLayer(b *features.Bundle, target market.TargetMarket, sel market.Type, _ map[market.Type]float64) Contribution {
	if b.HomeCoach == nil && b.AwayCoach == nil {
		return Contribution{Layer: LayerCoach, Points: 0, Reason: "no coach profiles"}
	}

	var points float64
	switch target {
	case market.TargetOver25, market.TargetBTTS:
		points += goalTendency(b.HomeCoach)
		points += goalTendency(b.AwayCoach)
		if b.HomeCoach != nil && b.HomeCoach.IsNewManager(b.Kickoff) {
			points -= 0.5
		}
		if b.AwayCoach != nil && b.AwayCoach.IsNewManager(b.Kickoff) {
			points -= 0.5
		}
	default:
		our, opp := b.HomeCoach, b.AwayCoach
		if sel == market.Away || sel == market.DCX2 {
			our, opp = opp, our
		}
		if our != nil && opp != nil {
			points = (our.WinRate - opp.WinRate) * 5
		}
		if our != nil && our.IsNewManager(b.Kickoff) {
			points -= 0.75
		}
	}

	return Contribution{
		Layer:  LayerCoach,
		Points: clamp(points, -1.5, 3),
		Reason: "coach tendency alignment",
	}
}

// goalTendency maps one coach onto a goals-market lean: offensive coaches
// and high combined goal averages push totals up.
func goalTendency(p *coach.Profile) float64 {
	if p == nil {
		return 0
	}
	switch p.Tendency {
	case coach.TendencyOffensive:
		return 1.0
	case coach.TendencyDefensive:
		return -0.75
	}
	combined := p.AvgGoalsFor + p.AvgGoalsAgainst
	return clamp((combined-2.7)*0.5, -0.75, 1.0)
}

// refereeLayer scores the official's goals bias. Range -1.5..+2.
func refereeLayer(b *features.Bundle, target market.TargetMarket, _ market.Type, _ map[market.Type]float64) Contribution {
	if b.Referee == nil {
		return Contribution{Layer: LayerReferee, Points: 0, Reason: "no referee assigned"}
	}
	if target != market.TargetOver25 && target != market.TargetBTTS {
		return Contribution{Layer: LayerReferee, Points: 0, Reason: "referee neutral for 1x2"}
	}

	bias := b.Referee.AvgGoalsMatch - b.Means.GoalsPerGame
	points := clamp(bias*1.5, -1.5, 2)
	return Contribution{
		Layer:  LayerReferee,
		Points: points,
		Reason: fmt.Sprintf("referee averages %.2f goals", b.Referee.AvgGoalsMatch),
	}
}

// convergenceLayer compares the model's probability for the chosen
// selection against the market's implied probability. The market backing
// our number is rewarded; the market pricing our selection shorter than the
// model warrants is punished hard. Range -30..+30.
func convergenceLayer(b *features.Bundle, _ market.TargetMarket, sel market.Type, probs map[market.Type]float64) Contribution {
	implied := b.CurrentImplied(sel)
	if implied <= 0 {
		return Contribution{Layer: LayerConvergence, Points: 0, Reason: "no market price"}
	}

	edge := probs[sel] - implied
	points := clamp(edge*300, -30, 30)
	return Contribution{
		Layer:  LayerConvergence,
		Points: points,
		Reason: fmt.Sprintf("model %.3f vs implied %.3f", probs[sel], implied),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
