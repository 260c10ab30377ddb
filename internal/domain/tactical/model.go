package tactical

// Matchup is one row of the style-vs-style lookup table, loaded once at
// process start and refreshed only by an explicit admin operation.
type Matchup struct {
	StyleHome  string
	StyleAway  string
	BTTSProb   float64
	Over25Prob float64
	AvgGoals   float64
	UpsetProb  float64
	Confidence float64
}

// FallbackKey is the neutral row used when a style pairing is missing.
const FallbackStyle = "balanced"
