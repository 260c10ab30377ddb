package market

// Outcome is a final score used for settlement.
type Outcome struct {
	HomeGoals int
	AwayGoals int
}

// Settle evaluates a market against a final score. The second return is
// false when the market type is not settleable, in which case the pick must
// stay pending rather than guess.
func Settle(t Type, out Outcome) (won bool, ok bool) {
	h, a := out.HomeGoals, out.AwayGoals
	switch t {
	case Home:
		return h > a, true
	case Draw:
		return h == a, true
	case Away:
		return a > h, true
	case DC1X:
		return h >= a, true
	case DCX2:
		return a >= h, true
	case DC12:
		return h != a, true
	case Over25:
		return h+a > 2, true
	case Under25:
		return h+a <= 2, true
	case BTTSYes:
		return h > 0 && a > 0, true
	case BTTSNo:
		return h == 0 || a == 0, true
	default:
		return false, false
	}
}
