package staking

import (
	"fmt"

	"github.com/crocodileps/oddsedge/internal/domain/market"
)

// EngineConfig is the single operator knob for edge and sizing. Market
// floors and min-edge overrides live here, never at call sites.
type EngineConfig struct {
	MinEdge       float64
	KellyFraction float64
	MaxKelly      float64
	// MarketOddsFloors holds per-market minimum acceptable odds. Short home
	// prices carry a raised floor because of historical negative ROI there.
	MarketOddsFloors map[market.Type]float64
	// MarketMinEdge overrides MinEdge per market.
	MarketMinEdge map[market.Type]float64
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinEdge:       0.03,
		KellyFraction: 0.25,
		MaxKelly:      0.05,
		MarketOddsFloors: map[market.Type]float64{
			market.Home:    1.50,
			market.Away:    1.60,
			market.Over25:  1.55,
			market.Under25: 1.55,
			market.BTTSYes: 1.55,
			market.BTTSNo:  1.55,
			market.DC1X:    1.25,
			market.DCX2:    1.30,
			market.DC12:    1.20,
		},
		MarketMinEdge: map[market.Type]float64{},
	}
}

// MergeOverrides folds operator-supplied per-market overrides into the
// config, mirroring market.FromConfig. Keys that do not parse as a market
// are skipped; an odds floor at or below 1.0 can never be satisfied and is
// ignored, as is a negative min edge.
func (c EngineConfig) MergeOverrides(oddsFloors, minEdge map[string]float64) EngineConfig {
	for k, v := range oddsFloors {
		t, err := market.ParseType(k)
		if err != nil || v <= 1.0 {
			continue
		}
		if c.MarketOddsFloors == nil {
			c.MarketOddsFloors = make(map[market.Type]float64)
		}
		c.MarketOddsFloors[t] = v
	}
	for k, v := range minEdge {
		t, err := market.ParseType(k)
		if err != nil || v < 0 {
			continue
		}
		if c.MarketMinEdge == nil {
			c.MarketMinEdge = make(map[market.Type]float64)
		}
		c.MarketMinEdge[t] = v
	}
	return c
}

// Quote is the engine's full valuation of one candidate bet.
type Quote struct {
	MarketType  market.Type
	Odds        float64
	ModelProb   float64
	ImpliedProb float64
	Edge        float64
	FairOdds    float64
	EV          float64
	KellyRaw    float64
	Stake       float64
	Placeable   bool
	Reason      string
}

// Engine converts calibrated probabilities and prices into sized bets. It
// is a pure value type; an A/B variation instantiates its own copy with
// overridden config.
type Engine struct {
	cfg EngineConfig
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.KellyFraction <= 0 {
		cfg.KellyFraction = 0.25
	}
	if cfg.MaxKelly <= 0 {
		cfg.MaxKelly = 0.05
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// Evaluate prices one candidate. The caller applies steam validation
// separately; a Quote with Placeable=true can still be blocked upstream.
func (e *Engine) Evaluate(mt market.Type, odds, modelProb float64) Quote {
	q := Quote{MarketType: mt, Odds: odds, ModelProb: modelProb}

	if odds <= 1.0 {
		q.Reason = "odds at or below 1.0"
		return q
	}
	if modelProb <= 0 || modelProb >= 1 {
		q.Reason = "model probability out of range"
		return q
	}

	q.ImpliedProb = market.ImpliedProb(odds)
	q.Edge = modelProb - q.ImpliedProb
	q.FairOdds = market.FairOdds(modelProb)
	q.EV = odds*modelProb - 1
	q.KellyRaw = kelly(odds, modelProb)

	stake := q.KellyRaw * e.cfg.KellyFraction
	if stake > e.cfg.MaxKelly {
		stake = e.cfg.MaxKelly
	}
	q.Stake = stake

	minEdge := e.cfg.MinEdge
	if override, ok := e.cfg.MarketMinEdge[mt]; ok {
		minEdge = override
	}
	if q.Edge < minEdge {
		q.Reason = fmt.Sprintf("edge %.4f below minimum %.4f", q.Edge, minEdge)
		return q
	}
	if floor, ok := e.cfg.MarketOddsFloors[mt]; ok && odds < floor {
		q.Reason = fmt.Sprintf("odds %.2f below market floor %.2f", odds, floor)
		return q
	}
	if q.Stake <= 0 {
		q.Reason = "kelly stake is zero"
		return q
	}

	q.Placeable = true
	q.Reason = "value confirmed"
	return q
}

// kelly is the full-Kelly fraction for decimal odds:
// ((o-1)p - (1-p)) / (o-1), floored at zero.
func kelly(odds, prob float64) float64 {
	b := odds - 1
	if b <= 0 {
		return 0
	}
	k := (b*prob - (1 - prob)) / b
	if k < 0 {
		return 0
	}
	return k
}
