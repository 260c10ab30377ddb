package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/infrastructure/repository/memory"
)

func settledPick(id string, mt market.Type, created time.Time, stake, profit, clv float64, won bool) pick.Pick {
	resolved := created.Add(26 * time.Hour)
	return pick.Pick{
		ID:           id,
		MatchID:      "match-" + id,
		HomeTeam:     "arsenal",
		AwayTeam:     "brentford",
		MarketType:   mt,
		Selection:    string(mt),
		OddsTaken:    2.00,
		ModelProb:    0.55,
		DiamondScore: 45,
		KellyStake:   stake,
		CreatedAt:    created,
		Kickoff:      created.Add(24 * time.Hour),
		Resolved:     true,
		IsWinner:     won,
		ProfitLoss:   &profit,
		CLVPct:       &clv,
		ResolvedAt:   &resolved,
	}
}

func TestReport_AggregatesSettledPicks(t *testing.T) {
	t.Parallel()

	repo := memory.NewPickRepository()
	svc := NewPerformanceService(repo)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []pick.Pick{
		settledPick("1", market.Home, base, 0.02, 0.02, 4.0, true),
		settledPick("2", market.Home, base.Add(24*time.Hour), 0.02, -0.02, -2.0, false),
		settledPick("3", market.Over25, base.Add(48*time.Hour), 0.01, 0.009, 3.0, true),
	}
	for _, p := range rows {
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("insert %s: %v", p.ID, err)
		}
	}
	// Unresolved picks never count toward the report.
	open := settledPick("4", market.Home, base, 0.05, 0, 0, false)
	open.Resolved = false
	open.ProfitLoss = nil
	open.CLVPct = nil
	if err := repo.Insert(ctx, open); err != nil {
		t.Fatalf("insert open pick: %v", err)
	}

	report, err := svc.Report(ctx, base)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if report.TotalPicks != 3 || report.TotalWins != 2 {
		t.Fatalf("unexpected totals: picks=%d wins=%d", report.TotalPicks, report.TotalWins)
	}
	if math.Abs(report.TotalProfit-0.009) > 1e-9 {
		t.Fatalf("unexpected profit: %v", report.TotalProfit)
	}
	if math.Abs(report.TotalStaked-0.05) > 1e-9 {
		t.Fatalf("unexpected staked: %v", report.TotalStaked)
	}
	if math.Abs(report.ROIPct-18.0) > 1e-9 {
		t.Fatalf("unexpected ROI: %v", report.ROIPct)
	}
	// Pick-weighted CLV: (4 - 2 + 3) / 3.
	if math.Abs(report.AvgCLVPct-5.0/3.0) > 1e-9 {
		t.Fatalf("unexpected average CLV: %v", report.AvgCLVPct)
	}

	if len(report.Rows) != 2 {
		t.Fatalf("expected two market rows, got %+v", report.Rows)
	}
	if report.Rows[0].MarketType != string(market.Home) || report.Rows[0].Picks != 2 {
		t.Fatalf("unexpected first row: %+v", report.Rows[0])
	}
}

func TestReport_SinceFilterAndDefaultWindow(t *testing.T) {
	t.Parallel()

	repo := memory.NewPickRepository()
	svc := NewPerformanceService(repo)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	old := settledPick("old", market.Home, now.AddDate(0, 0, -120), 0.02, 0.02, 1.0, true)
	recent := settledPick("recent", market.Home, now.AddDate(0, 0, -10), 0.02, 0.02, 1.0, true)
	for _, p := range []pick.Pick{old, recent} {
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("insert %s: %v", p.ID, err)
		}
	}

	report, err := svc.Report(ctx, time.Time{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalPicks != 1 {
		t.Fatalf("default window must drop picks older than ninety days, got %d", report.TotalPicks)
	}
	if !report.Since.Equal(now.AddDate(0, 0, -90)) {
		t.Fatalf("unexpected since: %s", report.Since)
	}
}
