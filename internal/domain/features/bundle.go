package features

import (
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/coach"
	"github.com/crocodileps/oddsedge/internal/domain/headtohead"
	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/referee"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/tactical"
	"github.com/crocodileps/oddsedge/internal/domain/team"
)

// Bundle is the assembled feature vector for one fixture. Every reference
// lookup is optional; FillDefaults patches the gaps once, centrally, so the
// scoring layers never need their own fallbacks.
type Bundle struct {
	League  string
	Kickoff time.Time
	Target  market.TargetMarket

	Home      team.Team
	Away      team.Team
	HomeFound bool
	AwayFound bool

	HomeCoach *coach.Profile
	AwayCoach *coach.Profile
	Referee   *referee.Referee

	Matchup      tactical.Matchup
	MatchupFound bool

	H2H *headtohead.Record

	HomeScorers []scorers.Scorer
	AwayScorers []scorers.Scorer

	Opening *odds.Snapshot
	Current *odds.Snapshot

	Means team.LeagueMeans

	// Derived scalars, set by Derive after FillDefaults.
	TierDiff       int
	MomentumDiff   float64
	LeagueMismatch bool
}

// DefaultLeagueMeans is the neutral prior used when a league has no
// aggregate row yet.
func DefaultLeagueMeans(league string) team.LeagueMeans {
	return team.LeagueMeans{
		League:       league,
		ScoredP90:    1.35,
		ConcededP90:  1.35,
		BTTSPct:      0.52,
		Over25Pct:    0.51,
		GoalsPerGame: 2.70,
	}
}

// FillDefaults replaces missing numerics with league means and missing
// categoricals with neutral sentinels. It must run before Derive.
func (b *Bundle) FillDefaults() {
	if b.Means.ScoredP90 <= 0 {
		b.Means = DefaultLeagueMeans(b.League)
	}
	fillTeam(&b.Home, b.Means)
	fillTeam(&b.Away, b.Means)
	if !b.MatchupFound {
		b.Matchup = tactical.Matchup{
			StyleHome:  tactical.FallbackStyle,
			StyleAway:  tactical.FallbackStyle,
			BTTSProb:   b.Means.BTTSPct,
			Over25Prob: b.Means.Over25Pct,
			AvgGoals:   b.Means.GoalsPerGame,
			Confidence: 0.30,
		}
	}
}

func fillTeam(t *team.Team, means team.LeagueMeans) {
	if t.Tier == "" {
		t.Tier = team.TierB
	}
	if t.PlayingStyle == "" {
		t.PlayingStyle = team.StyleBalanced
	}
	if t.Tempo == "" {
		t.Tempo = team.TempoMedium
	}
	if t.HomeScoredP90 <= 0 {
		t.HomeScoredP90 = means.ScoredP90
	}
	if t.HomeConcededP90 <= 0 {
		t.HomeConcededP90 = means.ConcededP90
	}
	if t.AwayScoredP90 <= 0 {
		t.AwayScoredP90 = means.ScoredP90
	}
	if t.AwayConcededP90 <= 0 {
		t.AwayConcededP90 = means.ConcededP90
	}
	if t.BTTSPct <= 0 {
		t.BTTSPct = means.BTTSPct
	}
	if t.Over25Pct <= 0 {
		t.Over25Pct = means.Over25Pct
	}
}

// Derive computes the scalar features shared by the scorer and the ML head.
func (b *Bundle) Derive() {
	b.TierDiff = team.TierRank(b.Home.Tier) - team.TierRank(b.Away.Tier)
	b.MomentumDiff = team.FormMomentum(b.Home.LastFiveForm) - team.FormMomentum(b.Away.LastFiveForm)
	mismatch := b.TierDiff
	if mismatch < 0 {
		mismatch = -mismatch
	}
	b.LeagueMismatch = mismatch >= 2
}

// CurrentImplied returns the implied probability of the latest fair-market
// price for the given market, or zero when no price is quoted.
func (b *Bundle) CurrentImplied(t market.Type) float64 {
	if b.Current == nil {
		return 0
	}
	switch t {
	case market.Home, market.Draw, market.Away:
		return market.ImpliedProb(b.Current.SideOdds(t.Side()))
	case market.DC1X:
		return market.ImpliedProb(b.Current.HomeOdds) + market.ImpliedProb(b.Current.DrawOdds)
	case market.DCX2:
		return market.ImpliedProb(b.Current.AwayOdds) + market.ImpliedProb(b.Current.DrawOdds)
	case market.DC12:
		return market.ImpliedProb(b.Current.HomeOdds) + market.ImpliedProb(b.Current.AwayOdds)
	case market.Over25:
		return market.ImpliedProb(b.Current.OverOdds)
	case market.Under25:
		return market.ImpliedProb(b.Current.UnderOdds)
	case market.BTTSYes:
		return market.ImpliedProb(b.Current.BTTSYesOdds)
	case market.BTTSNo:
		return market.ImpliedProb(b.Current.BTTSNoOdds)
	default:
		return 0
	}
}

// UnavailableXGShare sums the xG share of missing top scorers per side.
func (b *Bundle) UnavailableXGShare() (home, away float64) {
	return scorers.TotalUnavailableXGShare(b.HomeScorers), scorers.TotalUnavailableXGShare(b.AwayScorers)
}
