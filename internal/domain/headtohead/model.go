package headtohead

// Record aggregates the full meeting history between two clubs. Rows are
// stored canonically: TeamA is always the lexicographically smaller
// normalized name, so a lookup for either ordering hits the same row.
type Record struct {
	TeamA        string
	TeamB        string
	TotalMatches int
	AvgGoals     float64
	BTTSPct      float64
	HomeWins     int
	AwayWins     int
	Draws        int
}

// Canonical orders a pair of normalized names into the stored form. The
// boolean reports whether the pair was swapped, so per-side counters can be
// read back from the caller's perspective.
func Canonical(a, b string) (string, string, bool) {
	if a <= b {
		return a, b, false
	}
	return b, a, true
}
