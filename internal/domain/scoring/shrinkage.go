package scoring

// ShrinkageC returns the Bayesian shrinkage constant for a tier gap. Equal
// tiers get strong shrinkage toward the league mean for stability; a gap of
// two or more keeps C small so a genuine skill difference survives.
func ShrinkageC(tierDiff int) float64 {
	if tierDiff < 0 {
		tierDiff = -tierDiff
	}
	switch {
	case tierDiff == 0:
		return 10
	case tierDiff == 1:
		return 5
	default:
		return 2
	}
}

// Shrink pulls a per-90 team rate toward the league mean with sample size n
// and shrinkage constant c: (n*stat + c*mean) / (n+c).
func Shrink(stat float64, n int, leagueMean, c float64) float64 {
	if n < 0 {
		n = 0
	}
	fn := float64(n)
	if fn+c == 0 {
		return leagueMean
	}
	return (fn*stat + c*leagueMean) / (fn + c)
}
