package features

import (
	"testing"

	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/team"
)

func TestFillDefaultsPatchesMissingFields(t *testing.T) {
	t.Parallel()

	b := Bundle{League: "epl"}
	b.FillDefaults()

	if b.Home.PlayingStyle != team.StyleBalanced {
		t.Fatalf("missing style must default to balanced, got %q", b.Home.PlayingStyle)
	}
	if b.Home.Tempo != team.TempoMedium {
		t.Fatalf("missing tempo must default to medium_pace, got %q", b.Home.Tempo)
	}
	if b.Away.HomeScoredP90 != b.Means.ScoredP90 {
		t.Fatalf("missing rate must take the league mean, got %v", b.Away.HomeScoredP90)
	}
	if !b.MatchupFound && b.Matchup.StyleHome != "balanced" {
		t.Fatalf("missing matchup must fall back to balanced/balanced")
	}
}

func TestFillDefaultsKeepsKnownFields(t *testing.T) {
	t.Parallel()

	b := Bundle{
		League: "epl",
		Home: team.Team{
			Tier:          team.TierS,
			PlayingStyle:  team.StylePressing,
			HomeScoredP90: 2.4,
		},
	}
	b.FillDefaults()

	if b.Home.Tier != team.TierS || b.Home.PlayingStyle != team.StylePressing {
		t.Fatal("known categorical fields must survive the fill")
	}
	if b.Home.HomeScoredP90 != 2.4 {
		t.Fatalf("known rate overwritten: %v", b.Home.HomeScoredP90)
	}
}

func TestDerive(t *testing.T) {
	t.Parallel()

	b := Bundle{
		Home: team.Team{Tier: team.TierS, LastFiveForm: "WWWWD"},
		Away: team.Team{Tier: team.TierD, LastFiveForm: "LLDLL"},
	}
	b.FillDefaults()
	b.Derive()

	if b.TierDiff != 4 {
		t.Fatalf("tier diff S vs D: got %d want 4", b.TierDiff)
	}
	if !b.LeagueMismatch {
		t.Fatal("tier diff >= 2 must flag a league mismatch")
	}
	if b.MomentumDiff != 4.5-0.5 {
		t.Fatalf("momentum diff: got %v", b.MomentumDiff)
	}
}

func TestCurrentImplied(t *testing.T) {
	t.Parallel()

	b := Bundle{Current: &odds.Snapshot{HomeOdds: 2.0, DrawOdds: 4.0, AwayOdds: 4.0, OverOdds: 1.9}}

	if got := b.CurrentImplied(market.Home); got != 0.5 {
		t.Fatalf("home implied: got %v", got)
	}
	if got := b.CurrentImplied(market.DC1X); got != 0.75 {
		t.Fatalf("dc_1x implied: got %v", got)
	}
	if got := (&Bundle{}).CurrentImplied(market.Home); got != 0 {
		t.Fatalf("no snapshot implies zero, got %v", got)
	}
}

func TestUnavailableXGShare(t *testing.T) {
	t.Parallel()

	b := Bundle{
		HomeScorers: []scorers.Scorer{
			{PlayerName: "a", XGShare: 0.35, Available: false},
			{PlayerName: "b", XGShare: 0.20, Available: true},
		},
	}
	home, away := b.UnavailableXGShare()
	if home != 0.35 || away != 0 {
		t.Fatalf("unavailable share: got home=%v away=%v", home, away)
	}
}
