package pick

import (
	"context"
	"time"
)

// Filter narrows pick listings.
type Filter struct {
	MarketType   string
	Resolved     *bool
	CreatedAfter time.Time
	Limit        int
}

// PerformanceRow is one aggregate line of the CLV / profit report.
type PerformanceRow struct {
	MarketType  string
	Picks       int
	Wins        int
	AvgCLVPct   float64
	TotalProfit float64
	TotalStaked float64
}

// Repository persists picks. The two settlement mutations are guarded in
// SQL on their respective null fields, so re-running a resolver pass is a
// no-op on already-settled rows regardless of process restarts.
type Repository interface {
	Insert(ctx context.Context, p Pick) error
	GetByID(ctx context.Context, id string) (Pick, bool, error)
	List(ctx context.Context, f Filter) ([]Pick, error)

	// ListPendingClosing returns picks whose kickoff has passed and whose
	// closing odds are still unset. Settlement state is irrelevant here; a
	// pick settled before its closing snapshot arrives still needs CLV.
	ListPendingClosing(ctx context.Context, now time.Time, limit int) ([]Pick, error)
	// SetClosing writes closing odds and CLV, guarded by closing_odds IS NULL.
	SetClosing(ctx context.Context, id string, closingOdds, clvPct float64) (bool, error)

	// ListPendingOutcome returns unresolved picks past kickoff plus grace.
	ListPendingOutcome(ctx context.Context, cutoff time.Time, limit int) ([]Pick, error)
	// Settle marks the outcome, guarded by is_resolved = false. When
	// variationID is non-empty the arm's posterior increment rides in the
	// same transaction, so a settled pick and its posterior update commit
	// or fail together. It returns whether a row transitioned.
	Settle(ctx context.Context, id string, winner bool, profitLoss float64, at time.Time, variationID string) (bool, error)

	Performance(ctx context.Context, since time.Time) ([]PerformanceRow, error)
}
