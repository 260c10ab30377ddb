// Package market defines the bet market taxonomy shared by the scorer, the
// sizing engine and the resolver, plus the settlement truth table.
package market

import "fmt"

// Type is a concrete priceable market.
type Type string

const (
	Home    Type = "home"
	Draw    Type = "draw"
	Away    Type = "away"
	DC1X    Type = "dc_1x"
	DCX2    Type = "dc_x2"
	DC12    Type = "dc_12"
	Over25  Type = "over_25"
	Under25 Type = "under_25"
	BTTSYes Type = "btts_yes"
	BTTSNo  Type = "btts_no"
)

// TargetMarket is the family a caller asks the scorer to evaluate. The
// scorer resolves it to a concrete Type as its selection.
type TargetMarket string

const (
	TargetOver25 TargetMarket = "over_25"
	TargetBTTS   TargetMarket = "btts"
	Target1X2    TargetMarket = "1x2"
)

func ParseTarget(raw string) (TargetMarket, error) {
	switch TargetMarket(raw) {
	case TargetOver25, TargetBTTS, Target1X2:
		return TargetMarket(raw), nil
	default:
		return "", fmt.Errorf("unknown target market %q", raw)
	}
}

func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case Home, Draw, Away, DC1X, DCX2, DC12, Over25, Under25, BTTSYes, BTTSNo:
		return Type(raw), nil
	default:
		return "", fmt.Errorf("unknown market type %q", raw)
	}
}

// IsOneXTwo reports whether t settles off the match winner alone. Double
// chance counts: steam detection treats it as a 1X2 market.
func (t Type) IsOneXTwo() bool {
	switch t {
	case Home, Draw, Away, DC1X, DCX2, DC12:
		return true
	default:
		return false
	}
}

// Side maps a plain 1X2 market to its h2h side name, empty otherwise.
func (t Type) Side() string {
	switch t {
	case Home, Draw, Away:
		return string(t)
	default:
		return ""
	}
}

// ImpliedProb converts a decimal price to its implied probability.
func ImpliedProb(odds float64) float64 {
	if odds <= 1 {
		return 0
	}
	return 1 / odds
}

// FairOdds is the no-vig price for a probability.
func FairOdds(prob float64) float64 {
	if prob <= 0 {
		return 0
	}
	return 1 / prob
}
