package odds

import "time"

// BookmakerPinnacle is the book whose prices are treated as the fair
// market: CLV and steam detection are both defined against it.
const BookmakerPinnacle = "pinnacle"

// Snapshot is one append-only observation of a bookmaker's prices for a
// match. Zero-valued prices mean the book did not quote that market.
type Snapshot struct {
	MatchID     string
	Bookmaker   string
	CollectedAt time.Time

	HomeOdds float64
	DrawOdds float64
	AwayOdds float64

	TotalsLine float64
	OverOdds   float64
	UnderOdds  float64

	BTTSYesOdds float64
	BTTSNoOdds  float64
}

// SideOdds returns the h2h price for one side of the 1X2 market.
func (s Snapshot) SideOdds(side string) float64 {
	switch side {
	case "home":
		return s.HomeOdds
	case "draw":
		return s.DrawOdds
	case "away":
		return s.AwayOdds
	default:
		return 0
	}
}

// IsStale reports whether the snapshot is older than the given threshold
// relative to now.
func (s Snapshot) IsStale(now time.Time, threshold time.Duration) bool {
	if threshold <= 0 {
		return false
	}
	return now.Sub(s.CollectedAt) > threshold
}
