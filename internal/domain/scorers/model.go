package scorers

// Scorer is one entry of a team's top-scorer list, ranked by goals. The
// availability flag is resolved from the external injury feed; a player the
// feed has never seen is treated as available.
type Scorer struct {
	PlayerName    string
	Team          string
	Rank          int
	Goals         int
	Assists       int
	XGShare       float64
	Available     bool
	AbsenceReason string
}

// TotalUnavailableXGShare sums the xG share of every unavailable scorer,
// which is what the injuries layer penalizes.
func TotalUnavailableXGShare(list []Scorer) float64 {
	total := 0.0
	for _, s := range list {
		if !s.Available {
			total += s.XGShare
		}
	}
	return total
}
