package odds

import (
	"context"
	"time"
)

// Repository is the append-only odds time series. Earliest and Latest
// bound the steam window; LatestBefore feeds the closing-line resolver.
type Repository interface {
	Append(ctx context.Context, snap Snapshot) error
	Latest(ctx context.Context, matchID, bookmaker string) (Snapshot, bool, error)
	Earliest(ctx context.Context, matchID, bookmaker string) (Snapshot, bool, error)
	LatestBefore(ctx context.Context, matchID, bookmaker string, cutoff time.Time) (Snapshot, bool, error)
}
