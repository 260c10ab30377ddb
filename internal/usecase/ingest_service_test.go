package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/result"
	"github.com/crocodileps/oddsedge/internal/infrastructure/repository/memory"
)

func TestAppendOdds_ValidatesAndNormalizes(t *testing.T) {
	t.Parallel()

	oddsRepo := memory.NewOddsRepository(nil)
	svc := NewIngestService(oddsRepo, memory.NewResultRepository(nil), nil)
	fixed := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	if err := svc.AppendOdds(ctx, odds.Snapshot{Bookmaker: "pinnacle"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing match id, got %v", err)
	}
	if err := svc.AppendOdds(ctx, odds.Snapshot{MatchID: "m1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing bookmaker, got %v", err)
	}

	if err := svc.AppendOdds(ctx, odds.Snapshot{MatchID: "m1", Bookmaker: " Pinnacle ", HomeOdds: 1.90}); err != nil {
		t.Fatalf("append: %v", err)
	}

	snap, ok, err := oddsRepo.Latest(ctx, "m1", odds.BookmakerPinnacle)
	if err != nil || !ok {
		t.Fatalf("snapshot not stored under lowercase bookmaker: ok=%v err=%v", ok, err)
	}
	if !snap.CollectedAt.Equal(fixed) {
		t.Fatalf("zero CollectedAt must default to ingest time, got %s", snap.CollectedAt)
	}
}

func TestUpsertResult_NormalizesTeamNames(t *testing.T) {
	t.Parallel()

	resultRepo := memory.NewResultRepository(nil)
	svc := NewIngestService(memory.NewOddsRepository(nil), resultRepo, nil)
	ctx := context.Background()
	kickoff := time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

	res := result.MatchResult{
		MatchID:   "m1",
		HomeTeam:  "Arsenal FC",
		AwayTeam:  "Wolves",
		Kickoff:   kickoff,
		HomeScore: 2,
		AwayScore: 1,
		Finished:  true,
	}
	if err := svc.UpsertResult(ctx, res); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stored, ok, err := resultRepo.GetByMatchID(ctx, "m1")
	if err != nil || !ok {
		t.Fatalf("result not stored: ok=%v err=%v", ok, err)
	}
	if stored.NormalizedHome != "arsenal" || stored.NormalizedAway != "wolverhampton" {
		t.Fatalf("names not normalized: %q / %q", stored.NormalizedHome, stored.NormalizedAway)
	}

	// Replay with a corrected score overwrites the same row.
	res.AwayScore = 2
	if err := svc.UpsertResult(ctx, res); err != nil {
		t.Fatalf("replay upsert: %v", err)
	}
	stored, _, err = resultRepo.GetByMatchID(ctx, "m1")
	if err != nil {
		t.Fatalf("get replayed result: %v", err)
	}
	if stored.AwayScore != 2 {
		t.Fatalf("replay must overwrite, got %d", stored.AwayScore)
	}
}

func TestUpsertResult_RejectsBadRows(t *testing.T) {
	t.Parallel()

	svc := NewIngestService(memory.NewOddsRepository(nil), memory.NewResultRepository(nil), nil)
	ctx := context.Background()
	kickoff := time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		res  result.MatchResult
	}{
		{"missing match id", result.MatchResult{HomeTeam: "A", AwayTeam: "B", Kickoff: kickoff}},
		{"zero kickoff", result.MatchResult{MatchID: "m1", HomeTeam: "A", AwayTeam: "B"}},
		{"negative score", result.MatchResult{MatchID: "m1", HomeTeam: "A", AwayTeam: "B", Kickoff: kickoff, HomeScore: -1}},
		{"blank team", result.MatchResult{MatchID: "m1", HomeTeam: " ", AwayTeam: "B", Kickoff: kickoff}},
	}
	for _, tc := range cases {
		if err := svc.UpsertResult(ctx, tc.res); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}
