package variation

import (
	"fmt"
	"time"
)

// Variation is one arm of an A/B experiment over engine parameters. The
// Beta(alpha, beta) posterior tracks its observed win rate; the control arm
// runs the baseline config and keeps a fixed traffic share for comparison.
type Variation struct {
	ID             string
	Name           string
	EnabledFactors []string
	MinEdge        *float64
	MinConfidence  *float64
	KellyFraction  *float64
	TrafficWeight  float64
	Alpha          float64
	Beta           float64
	IsControl      bool
	CreatedAt      time.Time
}

func (v Variation) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("variation id is required")
	}
	if v.Alpha <= 0 || v.Beta <= 0 {
		return fmt.Errorf("variation posterior parameters must be positive")
	}
	return nil
}

// PosteriorMean is the expected win rate under the current posterior.
func (v Variation) PosteriorMean() float64 {
	return v.Alpha / (v.Alpha + v.Beta)
}

// Assignment records which arm produced a pick, so settlement can update
// exactly one posterior.
type Assignment struct {
	MatchID     string
	VariationID string
	PickID      string
	AssignedAt  time.Time
}
