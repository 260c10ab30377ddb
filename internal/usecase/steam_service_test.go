package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/infrastructure/repository/memory"
)

func snapshotPair(matchID string, openHome, openAway, curHome, curAway float64) []odds.Snapshot {
	open := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []odds.Snapshot{
		{
			MatchID:     matchID,
			Bookmaker:   odds.BookmakerPinnacle,
			CollectedAt: open,
			HomeOdds:    openHome,
			DrawOdds:    3.60,
			AwayOdds:    openAway,
		},
		{
			MatchID:     matchID,
			Bookmaker:   odds.BookmakerPinnacle,
			CollectedAt: open.Add(6 * time.Hour),
			HomeOdds:    curHome,
			DrawOdds:    3.60,
			AwayOdds:    curAway,
		},
	}
}

func TestSteamValidate_DriftAgainstBlocks(t *testing.T) {
	t.Parallel()

	// Home implied 0.55 at open, 0.50 now: a -50 bp drift against us.
	repo := memory.NewOddsRepository(snapshotPair("m1", 1/0.55, 4.80, 1/0.50, 4.80))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	v, err := svc.Validate(context.Background(), "m1", market.Home, 62)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.Action != SteamBlock {
		t.Fatalf("expected BLOCK, got %s", v.Action)
	}
	if math.Abs(v.DeltaBp-(-50)) > 0.5 {
		t.Fatalf("expected delta near -50 bp, got %v", v.DeltaBp)
	}
	if v.AdjustedConfidence != 22 {
		t.Fatalf("expected adjusted confidence 22, got %v", v.AdjustedConfidence)
	}
	if !v.Validated {
		t.Fatalf("verdict should be marked validated")
	}
}

func TestSteamValidate_BlockedConfidenceFloorsAtZero(t *testing.T) {
	t.Parallel()

	repo := memory.NewOddsRepository(snapshotPair("m1", 1/0.55, 4.80, 1/0.50, 4.80))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	v, err := svc.Validate(context.Background(), "m1", market.Home, 25)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.AdjustedConfidence != 0 {
		t.Fatalf("expected confidence floored at 0, got %v", v.AdjustedConfidence)
	}
}

func TestSteamValidate_MoveTowardBoosts(t *testing.T) {
	t.Parallel()

	// Home implied 0.50 -> 0.55, +50 bp toward our side.
	repo := memory.NewOddsRepository(snapshotPair("m1", 1/0.50, 4.80, 1/0.55, 4.80))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	v, err := svc.Validate(context.Background(), "m1", market.Home, 50)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.Action != SteamProceedBoosted {
		t.Fatalf("expected PROCEED_BOOSTED, got %s", v.Action)
	}
	if v.AdjustedConfidence != 60 {
		t.Fatalf("expected adjusted confidence 60, got %v", v.AdjustedConfidence)
	}
}

func TestSteamValidate_OppositeSideSteamCautious(t *testing.T) {
	t.Parallel()

	// Our home price barely moves while the away side shortens sharply.
	repo := memory.NewOddsRepository(snapshotPair("m1", 2.50, 1/0.45, 2.50, 1/0.50))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	v, err := svc.Validate(context.Background(), "m1", market.Home, 50)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.Action != SteamProceedCautious {
		t.Fatalf("expected PROCEED_CAUTIOUS, got %s", v.Action)
	}
	if v.AdjustedConfidence != 30 {
		t.Fatalf("expected adjusted confidence 30, got %v", v.AdjustedConfidence)
	}
}

func TestSteamValidate_SidesSwapInvertsDelta(t *testing.T) {
	t.Parallel()

	repo := memory.NewOddsRepository(snapshotPair("m1", 1/0.55, 1/0.30, 1/0.50, 1/0.35))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	home, err := svc.Validate(context.Background(), "m1", market.Home, 50)
	if err != nil {
		t.Fatalf("validate home: %v", err)
	}
	away, err := svc.Validate(context.Background(), "m1", market.Away, 50)
	if err != nil {
		t.Fatalf("validate away: %v", err)
	}
	if math.Abs(home.DeltaBp-(-50)) > 0.5 || math.Abs(away.DeltaBp-50) > 0.5 {
		t.Fatalf("expected mirrored deltas, got home %v away %v", home.DeltaBp, away.DeltaBp)
	}
	if home.Action != SteamBlock || away.Action != SteamProceedBoosted {
		t.Fatalf("expected BLOCK/PROCEED_BOOSTED, got %s/%s", home.Action, away.Action)
	}
}

func TestSteamValidate_SmallMoveProceeds(t *testing.T) {
	t.Parallel()

	// 0.520 -> 0.518 is a -2 bp wobble, well under the drift threshold.
	repo := memory.NewOddsRepository(snapshotPair("m1", 1/0.520, 4.80, 1/0.518, 4.80))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	v, err := svc.Validate(context.Background(), "m1", market.Home, 48)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.Action != SteamProceed {
		t.Fatalf("expected PROCEED, got %s", v.Action)
	}
	if v.AdjustedConfidence != 48 {
		t.Fatalf("confidence should be untouched, got %v", v.AdjustedConfidence)
	}
}

func TestSteamValidate_NonDirectionalMarketsPassThrough(t *testing.T) {
	t.Parallel()

	repo := memory.NewOddsRepository(snapshotPair("m1", 1/0.55, 4.80, 1/0.50, 4.80))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	for _, sel := range []market.Type{market.Draw, market.DC12, market.Over25, market.BTTSYes} {
		v, err := svc.Validate(context.Background(), "m1", sel, 60)
		if err != nil {
			t.Fatalf("validate %s: %v", sel, err)
		}
		if v.Validated || v.Action != SteamProceed || v.AdjustedConfidence != 60 {
			t.Fatalf("%s should pass through untouched, got %+v", sel, v)
		}
	}
}

func TestSteamValidate_SingleSnapshotPassesThrough(t *testing.T) {
	t.Parallel()

	repo := memory.NewOddsRepository([]odds.Snapshot{{
		MatchID:     "m1",
		Bookmaker:   odds.BookmakerPinnacle,
		CollectedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		HomeOdds:    1.90,
		DrawOdds:    3.60,
		AwayOdds:    4.20,
	}})
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	v, err := svc.Validate(context.Background(), "m1", market.Home, 55)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.Validated || v.Action != SteamProceed {
		t.Fatalf("single snapshot should pass through, got %+v", v)
	}
}

func TestSteamValidate_DoubleChanceUsesCoveredSide(t *testing.T) {
	t.Parallel()

	// dc_x2 is anchored on the away side, so away drift drives the verdict.
	repo := memory.NewOddsRepository(snapshotPair("m1", 2.50, 1/0.40, 2.50, 1/0.45))
	svc := NewSteamService(repo, DefaultSteamConfig(), nil)

	v, err := svc.Validate(context.Background(), "m1", market.DCX2, 50)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.Action != SteamProceedBoosted {
		t.Fatalf("expected PROCEED_BOOSTED on away shortening, got %s", v.Action)
	}
}
