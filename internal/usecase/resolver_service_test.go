package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/domain/result"
	"github.com/crocodileps/oddsedge/internal/domain/variation"
	"github.com/crocodileps/oddsedge/internal/infrastructure/repository/memory"
)

var resolverNow = time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)

func resolverFixturePick() pick.Pick {
	kickoff := resolverNow.Add(-4 * time.Hour)
	return pick.Pick{
		ID:           "pick-1",
		MatchID:      "match-1",
		HomeTeam:     "arsenal",
		AwayTeam:     "brentford",
		League:       "eng-premier-league",
		MarketType:   market.Home,
		Selection:    "home",
		OddsTaken:    2.10,
		ModelProb:    0.52,
		Edge:         0.044,
		DiamondScore: 48,
		KellyStake:   0.02,
		VariationID:  "var-a",
		CreatedAt:    kickoff.Add(-6 * time.Hour),
		Kickoff:      kickoff,
	}
}

func newResolverHarness(t *testing.T, snaps []odds.Snapshot, results []result.MatchResult) (*ResolverService, *memory.PickRepository, *memory.VariationRepository) {
	t.Helper()

	picks := memory.NewPickRepository()
	varRepo := memory.NewVariationRepository([]variation.Variation{
		{ID: "var-a", Name: "aggressive", TrafficWeight: 0.5, Alpha: 3, Beta: 2, CreatedAt: resolverNow},
	})
	picks.BindVariations(varRepo)

	svc := NewResolverService(
		picks,
		memory.NewOddsRepository(snaps),
		memory.NewResultRepository(results),
		DefaultResolverConfig(),
		nil,
	)
	svc.now = func() time.Time { return resolverNow }
	return svc, picks, varRepo
}

func TestResolverRun_ClosingPassStampsCLV(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	snaps := []odds.Snapshot{
		{
			MatchID:     p.MatchID,
			Bookmaker:   odds.BookmakerPinnacle,
			CollectedAt: p.Kickoff.Add(-10 * time.Minute),
			HomeOdds:    2.00,
			DrawOdds:    3.50,
			AwayOdds:    3.80,
		},
		{
			// Post-kickoff snapshot must not be used as the closing price.
			MatchID:     p.MatchID,
			Bookmaker:   odds.BookmakerPinnacle,
			CollectedAt: p.Kickoff.Add(5 * time.Minute),
			HomeOdds:    1.50,
			DrawOdds:    4.20,
			AwayOdds:    6.00,
		},
	}
	svc, picks, _ := newResolverHarness(t, snaps, nil)
	if err := picks.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.ClosingSet != 1 {
		t.Fatalf("expected 1 closing set, got %d", stats.ClosingSet)
	}

	got, ok, err := picks.GetByID(context.Background(), p.ID)
	if err != nil || !ok {
		t.Fatalf("get pick: ok=%v err=%v", ok, err)
	}
	if got.ClosingOdds == nil || *got.ClosingOdds != 2.00 {
		t.Fatalf("expected closing odds 2.00, got %v", got.ClosingOdds)
	}
	if got.CLVPct == nil || math.Abs(*got.CLVPct-5.0) > 1e-9 {
		t.Fatalf("expected CLV +5.0%%, got %v", got.CLVPct)
	}
}

func TestResolverRun_SettlesWinnerAndUpdatesPosterior(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	results := []result.MatchResult{{
		MatchID:        p.MatchID,
		NormalizedHome: p.HomeTeam,
		NormalizedAway: p.AwayTeam,
		Kickoff:        p.Kickoff,
		HomeScore:      2,
		AwayScore:      0,
		Finished:       true,
	}}
	svc, picks, varRepo := newResolverHarness(t, nil, results)
	ctx := context.Background()
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Settled != 1 || stats.LeftPending != 0 {
		t.Fatalf("expected 1 settled, got %+v", stats)
	}

	got, _, err := picks.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get pick: %v", err)
	}
	if !got.Resolved || !got.IsWinner {
		t.Fatalf("pick should be resolved as winner, got %+v", got)
	}
	wantProfit := p.KellyStake * (p.OddsTaken - 1)
	if got.ProfitLoss == nil || math.Abs(*got.ProfitLoss-wantProfit) > 1e-9 {
		t.Fatalf("expected profit %v, got %v", wantProfit, got.ProfitLoss)
	}

	arm, ok, err := varRepo.GetByID(ctx, "var-a")
	if err != nil || !ok {
		t.Fatalf("get variation: ok=%v err=%v", ok, err)
	}
	if arm.Alpha != 4 || arm.Beta != 2 {
		t.Fatalf("expected posterior alpha=4 beta=2, got %v/%v", arm.Alpha, arm.Beta)
	}
}

func TestResolverRun_DoubleRunIsIdempotent(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	snaps := []odds.Snapshot{{
		MatchID:     p.MatchID,
		Bookmaker:   odds.BookmakerPinnacle,
		CollectedAt: p.Kickoff.Add(-10 * time.Minute),
		HomeOdds:    2.00,
		DrawOdds:    3.50,
		AwayOdds:    3.80,
	}}
	results := []result.MatchResult{{
		MatchID:        p.MatchID,
		NormalizedHome: p.HomeTeam,
		NormalizedAway: p.AwayTeam,
		Kickoff:        p.Kickoff,
		HomeScore:      1,
		AwayScore:      1,
		Finished:       true,
	}}
	svc, picks, varRepo := newResolverHarness(t, snaps, results)
	ctx := context.Background()
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.ClosingSet != 0 || second.Settled != 0 || second.OutcomeScanned != 0 {
		t.Fatalf("second run should find nothing to do, got %+v", second)
	}

	got, _, err := picks.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get pick: %v", err)
	}
	if !got.Resolved || got.IsWinner {
		t.Fatalf("home pick on a draw should settle as loss, got %+v", got)
	}
	wantLoss := -p.KellyStake
	if got.ProfitLoss == nil || math.Abs(*got.ProfitLoss-wantLoss) > 1e-9 {
		t.Fatalf("expected stake lost %v, got %v", wantLoss, got.ProfitLoss)
	}

	arm, _, err := varRepo.GetByID(ctx, "var-a")
	if err != nil {
		t.Fatalf("get variation: %v", err)
	}
	if arm.Alpha != 3 || arm.Beta != 3 {
		t.Fatalf("posterior should update exactly once, got alpha=%v beta=%v", arm.Alpha, arm.Beta)
	}
}

func TestResolverRun_UnassignedPickLeavesArmsUntouched(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	p.VariationID = ""
	results := []result.MatchResult{{
		MatchID:        p.MatchID,
		NormalizedHome: p.HomeTeam,
		NormalizedAway: p.AwayTeam,
		Kickoff:        p.Kickoff,
		HomeScore:      2,
		AwayScore:      0,
		Finished:       true,
	}}
	svc, picks, varRepo := newResolverHarness(t, nil, results)
	ctx := context.Background()
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Settled != 1 {
		t.Fatalf("expected 1 settled, got %+v", stats)
	}

	arm, _, err := varRepo.GetByID(ctx, "var-a")
	if err != nil {
		t.Fatalf("get variation: %v", err)
	}
	if arm.Alpha != 3 || arm.Beta != 2 {
		t.Fatalf("pick without an arm must not move posteriors, got alpha=%v beta=%v", arm.Alpha, arm.Beta)
	}
}

func TestResolverRun_SettledPickStillReceivesClosing(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	snaps := []odds.Snapshot{{
		MatchID:     p.MatchID,
		Bookmaker:   odds.BookmakerPinnacle,
		CollectedAt: p.Kickoff.Add(-10 * time.Minute),
		HomeOdds:    2.00,
		DrawOdds:    3.50,
		AwayOdds:    3.80,
	}}
	svc, picks, _ := newResolverHarness(t, snaps, nil)
	ctx := context.Background()

	// The outcome can land before the closing snapshot is collected; the
	// closing pass must not be blind to already-settled picks.
	p.Resolved = true
	p.IsWinner = true
	profit := p.KellyStake * (p.OddsTaken - 1)
	p.ProfitLoss = &profit
	resolvedAt := resolverNow.Add(-time.Hour)
	p.ResolvedAt = &resolvedAt
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.ClosingSet != 1 {
		t.Fatalf("expected closing set on settled pick, got %+v", stats)
	}

	got, _, err := picks.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get pick: %v", err)
	}
	if got.ClosingOdds == nil || *got.ClosingOdds != 2.00 {
		t.Fatalf("expected closing odds 2.00, got %v", got.ClosingOdds)
	}
	if got.CLVPct == nil || math.Abs(*got.CLVPct-5.0) > 1e-9 {
		t.Fatalf("expected CLV +5.0%%, got %v", got.CLVPct)
	}
}

func TestResolverRun_GracePeriodDefersOutcome(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	p.Kickoff = resolverNow.Add(-time.Hour)
	p.CreatedAt = p.Kickoff.Add(-time.Hour)
	svc, picks, _ := newResolverHarness(t, nil, []result.MatchResult{{
		MatchID:        p.MatchID,
		NormalizedHome: p.HomeTeam,
		NormalizedAway: p.AwayTeam,
		Kickoff:        p.Kickoff,
		HomeScore:      3,
		AwayScore:      0,
		Finished:       true,
	}})
	ctx := context.Background()
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.OutcomeScanned != 0 || stats.Settled != 0 {
		t.Fatalf("pick inside grace period should not be scanned, got %+v", stats)
	}
}

func TestResolverRun_TeamWindowFallback(t *testing.T) {
	t.Parallel()

	// The collector keyed the result under a different match id; the
	// normalized-team window search has to find it.
	p := resolverFixturePick()
	results := []result.MatchResult{{
		MatchID:        "provider-77812",
		NormalizedHome: p.HomeTeam,
		NormalizedAway: p.AwayTeam,
		Kickoff:        p.Kickoff.Add(15 * time.Minute),
		HomeScore:      0,
		AwayScore:      2,
		Finished:       true,
	}}
	svc, picks, _ := newResolverHarness(t, nil, results)
	ctx := context.Background()
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Settled != 1 {
		t.Fatalf("expected settlement via team window, got %+v", stats)
	}
	got, _, err := picks.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get pick: %v", err)
	}
	if !got.Resolved || got.IsWinner {
		t.Fatalf("home pick on an away win should lose, got %+v", got)
	}
}

func TestResolverRun_AmbiguousResultsStayPending(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	results := []result.MatchResult{
		{
			MatchID:        "provider-a",
			NormalizedHome: p.HomeTeam,
			NormalizedAway: p.AwayTeam,
			Kickoff:        p.Kickoff,
			HomeScore:      1,
			AwayScore:      0,
			Finished:       true,
		},
		{
			MatchID:        "provider-b",
			NormalizedHome: p.HomeTeam,
			NormalizedAway: p.AwayTeam,
			Kickoff:        p.Kickoff.Add(2 * time.Hour),
			HomeScore:      0,
			AwayScore:      3,
			Finished:       true,
		},
	}
	svc, picks, _ := newResolverHarness(t, nil, results)
	ctx := context.Background()
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Settled != 0 || stats.LeftPending != 1 {
		t.Fatalf("ambiguous match should stay pending, got %+v", stats)
	}
	got, _, err := picks.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get pick: %v", err)
	}
	if got.Resolved {
		t.Fatalf("pick must not settle on ambiguous results")
	}
}

func TestResolverRun_OverduePickEscalates(t *testing.T) {
	t.Parallel()

	p := resolverFixturePick()
	p.Kickoff = resolverNow.Add(-80 * time.Hour)
	p.CreatedAt = p.Kickoff.Add(-time.Hour)
	svc, picks, _ := newResolverHarness(t, nil, nil)
	ctx := context.Background()
	if err := picks.Insert(ctx, p); err != nil {
		t.Fatalf("insert pick: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Escalated != 1 || stats.LeftPending != 1 {
		t.Fatalf("expected escalation, got %+v", stats)
	}
}
