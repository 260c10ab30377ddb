package market

// Corrections are per-market probability multipliers tuned from historical
// closing-line back-analysis. They are operator config, not derived values.
type Corrections map[Type]float64

func DefaultCorrections() Corrections {
	return Corrections{
		Over25:  1.20,
		Under25: 1.00,
		BTTSYes: 1.25,
		BTTSNo:  1.00,
		Home:    0.95,
		Draw:    1.00,
		Away:    1.00,
		DC1X:    1.00,
		DCX2:    1.00,
		DC12:    1.12,
	}
}

// Apply multiplies a raw probability by the market's correction, clamped
// below 1 so calibration can never promise a certainty.
func (c Corrections) Apply(t Type, prob float64) float64 {
	mult, ok := c[t]
	if !ok || mult <= 0 {
		return prob
	}
	out := prob * mult
	if out > 0.99 {
		out = 0.99
	}
	if out < 0 {
		out = 0
	}
	return out
}

// FromConfig builds Corrections from a raw string-keyed map, starting from
// defaults so partial overrides keep the remaining markets calibrated.
func FromConfig(raw map[string]float64) Corrections {
	out := DefaultCorrections()
	for k, v := range raw {
		t, err := ParseType(k)
		if err != nil || v <= 0 {
			continue
		}
		out[t] = v
	}
	return out
}
