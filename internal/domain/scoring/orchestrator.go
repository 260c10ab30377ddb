package scoring

import (
	"github.com/crocodileps/oddsedge/internal/domain/features"
	"github.com/crocodileps/oddsedge/internal/domain/market"
)

// Action is the orchestrator's verdict on a fixture.
type Action string

const (
	ActionSniper  Action = "SNIPER_BET"
	ActionNormal  Action = "NORMAL_BET"
	ActionSkip    Action = "SKIP"
	ActionBlocked Action = "BLOCKED"
)

// Thresholds are the operator-tunable score gates.
type Thresholds struct {
	MinConfidence      float64
	SniperConfidence   float64
	SubstitutionMargin float64
	ProbabilityFloors  map[market.Type]float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence:      40,
		SniperConfidence:   55,
		SubstitutionMargin: 8,
		ProbabilityFloors: map[market.Type]float64{
			market.Over25:  0.52,
			market.Under25: 0.52,
			market.BTTSYes: 0.52,
			market.BTTSNo:  0.52,
			market.Home:    0.50,
			market.Away:    0.45,
			market.DC1X:    0.62,
			market.DCX2:    0.62,
			market.DC12:    0.68,
		},
	}
}

// Result is the orchestrator's full output for one fixture and target.
type Result struct {
	Score             float64
	RecommendedMarket market.TargetMarket
	Selection         market.Type
	Action            Action
	Probabilities     map[market.Type]float64
	RawProbabilities  map[market.Type]float64
	Contributions     []Contribution
	LambdaHome        float64
	LambdaAway        float64
}

// Orchestrator folds the scoring layers over a feature bundle. It is
// stateless per request; corrections and thresholds are read-only after
// construction.
type Orchestrator struct {
	thresholds  Thresholds
	corrections market.Corrections
	enabled     map[string]bool
}

// NewOrchestrator builds an orchestrator. A nil or empty factor list
// enables every layer; the base layer cannot be disabled.
func NewOrchestrator(th Thresholds, corrections market.Corrections, enabledFactors []string) *Orchestrator {
	var enabled map[string]bool
	if len(enabledFactors) > 0 {
		enabled = make(map[string]bool, len(enabledFactors)+1)
		for _, f := range enabledFactors {
			enabled[f] = true
		}
		enabled[LayerBase] = true
	}
	if corrections == nil {
		corrections = market.DefaultCorrections()
	}
	return &Orchestrator{thresholds: th, corrections: corrections, enabled: enabled}
}

func (o *Orchestrator) layerEnabled(name string) bool {
	if o.enabled == nil {
		return true
	}
	return o.enabled[name]
}

// Score runs the fold for the caller's target, substituting a better target
// market when the requested one scores under the floor.
func (o *Orchestrator) Score(b *features.Bundle, target market.TargetMarket) Result {
	b.FillDefaults()
	b.Derive()

	res := o.scoreTarget(b, target)

	if res.Score < o.thresholds.MinConfidence {
		best := res
		for _, alt := range []market.TargetMarket{market.TargetOver25, market.TargetBTTS, market.Target1X2} {
			if alt == target {
				continue
			}
			altRes := o.scoreTarget(b, alt)
			if altRes.Score > best.Score {
				best = altRes
			}
		}
		if best.RecommendedMarket != target &&
			best.Score >= res.Score+o.thresholds.SubstitutionMargin &&
			best.Score >= o.thresholds.MinConfidence {
			res = best
		}
	}

	res.Action = o.decide(res)
	return res
}

func (o *Orchestrator) scoreTarget(b *features.Bundle, target market.TargetMarket) Result {
	lambdaHome, lambdaAway := ExpectedGoals(b)
	raw := Probabilities(lambdaHome, lambdaAway)

	probs := make(map[market.Type]float64, len(raw))
	for k, v := range raw {
		probs[k] = v
	}

	sel := o.selectionFor(b, target, probs)

	score := 0.0
	contributions := make([]Contribution, 0, len(AllLayers))
	for _, name := range AllLayers {
		if !o.layerEnabled(name) {
			continue
		}
		c := layerFuncs[name](b, target, sel, probs)
		score += c.Points
		for mt, delta := range c.ProbDelta {
			probs[mt] = clampProb(probs[mt] + delta)
		}
		contributions = append(contributions, c)
	}

	calibrated := make(map[market.Type]float64, len(probs))
	for mt, p := range probs {
		calibrated[mt] = o.corrections.Apply(mt, p)
	}

	return Result{
		Score:             score,
		RecommendedMarket: target,
		Selection:         sel,
		Probabilities:     calibrated,
		RawProbabilities:  probs,
		Contributions:     contributions,
		LambdaHome:        lambdaHome,
		LambdaAway:        lambdaAway,
	}
}

// selectionFor picks the market the target resolves to. For 1X2 the side
// with the larger model-vs-market edge wins; without a price the model
// probability decides.
func (o *Orchestrator) selectionFor(b *features.Bundle, target market.TargetMarket, probs map[market.Type]float64) market.Type {
	switch target {
	case market.TargetOver25:
		return market.Over25
	case market.TargetBTTS:
		return market.BTTSYes
	default:
		homeEdge := probs[market.Home] - b.CurrentImplied(market.Home)
		awayEdge := probs[market.Away] - b.CurrentImplied(market.Away)
		if b.Current == nil {
			homeEdge, awayEdge = probs[market.Home], probs[market.Away]
		}
		if awayEdge > homeEdge {
			return market.Away
		}
		return market.Home
	}
}

func (o *Orchestrator) decide(res Result) Action {
	floor := o.thresholds.ProbabilityFloors[res.Selection]
	switch {
	case res.Score >= o.thresholds.SniperConfidence && res.Probabilities[res.Selection] >= floor:
		return ActionSniper
	case res.Score >= o.thresholds.MinConfidence && res.Probabilities[res.Selection] >= floor:
		return ActionNormal
	default:
		return ActionSkip
	}
}
