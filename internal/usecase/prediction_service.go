package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/features"
	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/domain/scoring"
	"github.com/crocodileps/oddsedge/internal/domain/staking"
	"github.com/crocodileps/oddsedge/internal/domain/variation"
	"github.com/crocodileps/oddsedge/internal/ml"
	"github.com/crocodileps/oddsedge/internal/platform/id"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
)

// Skip reasons surfaced to callers. The prediction path degrades to a SKIP
// with a reason instead of raising; only persistence failures propagate.
const (
	SkipReasonTeamsUnknown = "teams unresolved in reference data"
	SkipReasonStaleMarket  = "stale market data"
	SkipReasonNoPrice      = "no price quoted for selection"
	SkipReasonBelowFloor   = "confidence below threshold"
	SkipReasonNotPlaceable = "edge or odds below floor"
	SkipReasonSteamBlocked = "steam move against selection"
)

// PredictionConfig bundles the baseline pipeline knobs.
type PredictionConfig struct {
	Thresholds     scoring.Thresholds
	Corrections    market.Corrections
	EnabledFactors []string
	Engine         staking.EngineConfig
	Staleness      time.Duration
}

// Prediction is the full response for one evaluated fixture.
type Prediction struct {
	MatchID        string
	Scoring        scoring.Result
	WinProbability float64
	Steam          SteamVerdict
	Quote          staking.Quote
	Pick           *pick.Pick
	VariationID    string
	Action         scoring.Action
	Reason         string
}

// PredictionService runs the strict linear pipeline: assemble, score, ML
// head, steam validation, sizing, persistence. Nothing is written until the
// final step, so a cancelled request has no durable effect.
type PredictionService struct {
	featureSvc   *FeatureService
	steamSvc     *SteamService
	variationSvc *VariationService
	head         *ml.Head
	pickRepo     pick.Repository
	idGen        id.Generator
	cfg          PredictionConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewPredictionService(
	featureSvc *FeatureService,
	steamSvc *SteamService,
	variationSvc *VariationService,
	head *ml.Head,
	pickRepo pick.Repository,
	idGen id.Generator,
	cfg PredictionConfig,
	logger *logging.Logger,
) *PredictionService {
	if cfg.Staleness <= 0 {
		cfg.Staleness = 60 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		featureSvc:   featureSvc,
		steamSvc:     steamSvc,
		variationSvc: variationSvc,
		head:         head,
		pickRepo:     pickRepo,
		idGen:        idGen,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Predict evaluates one fixture and, when the pipeline lands on a bet,
// persists the pick before returning it.
func (s *PredictionService) Predict(ctx context.Context, q MatchQuery) (Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	if _, err := market.ParseTarget(string(q.Target)); err != nil {
		return Prediction{}, ErrInvalidInput
	}
	now := s.now().UTC()
	if !q.Kickoff.After(now) {
		return Prediction{}, ErrInvalidInput
	}

	b, err := s.featureSvc.Assemble(ctx, q)
	if err != nil {
		return Prediction{}, err
	}

	out := Prediction{MatchID: q.MatchID}

	// A fixture whose teams never matched the reference tables would be
	// priced on bare league means, and the market layers reward exactly
	// the disagreement such a baseless prior produces.
	if !b.HomeFound || !b.AwayFound {
		out.Action = scoring.ActionSkip
		out.Reason = SkipReasonTeamsUnknown
		return out, nil
	}

	if b.Current == nil || b.Current.IsStale(now, s.cfg.Staleness) {
		out.Action = scoring.ActionSkip
		out.Reason = SkipReasonStaleMarket
		return out, nil
	}

	arm, hasArm, err := s.chooseArm(ctx)
	if err != nil {
		// Router trouble falls back to the baseline engine; the experiment
		// loses a sample, the caller still gets a prediction.
		s.logger.WarnContext(ctx, "variation routing failed, using baseline", "error", err)
		hasArm = false
	}
	orch, engine := s.buildPipeline(arm, hasArm)
	if hasArm {
		out.VariationID = arm.ID
	}

	res := orch.Score(b, q.Target)
	out.Scoring = res
	out.Action = res.Action
	if res.Action == scoring.ActionSkip {
		out.Reason = SkipReasonBelowFloor
		return out, nil
	}

	oddsTaken := selectionOdds(b, res.Selection)
	if oddsTaken <= 1.0 {
		out.Action = scoring.ActionSkip
		out.Reason = SkipReasonNoPrice
		return out, nil
	}

	modelProb := res.Probabilities[res.Selection]
	implied := market.ImpliedProb(oddsTaken)

	out.WinProbability = s.winProbability(b, res, oddsTaken, modelProb, implied, now)

	verdict, err := s.steamSvc.Validate(ctx, q.MatchID, res.Selection, res.Score)
	if err != nil {
		// Steam reads are advisory; losing them must not drop the pick.
		s.logger.WarnContext(ctx, "steam validation unavailable", "match_id", q.MatchID, "error", err)
		verdict = SteamVerdict{Action: SteamProceed, AdjustedConfidence: res.Score, Reason: "steam data unavailable"}
	}
	out.Steam = verdict
	out.Scoring.Score = verdict.AdjustedConfidence

	if verdict.Action == SteamBlock {
		out.Action = scoring.ActionBlocked
		out.Reason = SkipReasonSteamBlocked
		return out, nil
	}

	// Sniper picks need the classifier to agree the selection beats the
	// market; a disagreement downgrades rather than blocks.
	if out.Action == scoring.ActionSniper && out.WinProbability <= implied {
		out.Action = scoring.ActionNormal
	}

	quote := engine.Evaluate(res.Selection, oddsTaken, modelProb)
	out.Quote = quote
	if !quote.Placeable {
		out.Action = scoring.ActionSkip
		out.Reason = SkipReasonNotPlaceable
		if quote.Reason != "" {
			out.Reason = quote.Reason
		}
		return out, nil
	}

	p, err := s.persistPick(ctx, q, b, out, oddsTaken, modelProb, now)
	if err != nil {
		return Prediction{}, err
	}
	out.Pick = p
	return out, nil
}

func (s *PredictionService) chooseArm(ctx context.Context) (variation.Variation, bool, error) {
	if s.variationSvc == nil {
		return variation.Variation{}, false, nil
	}
	return s.variationSvc.Choose(ctx)
}

// buildPipeline instantiates the scorer and engine for the chosen arm. The
// control arm and the no-experiment path both run the baseline config.
func (s *PredictionService) buildPipeline(arm variation.Variation, hasArm bool) (*scoring.Orchestrator, *staking.Engine) {
	th := s.cfg.Thresholds
	factors := s.cfg.EnabledFactors
	engineCfg := s.cfg.Engine

	if hasArm && !arm.IsControl {
		if len(arm.EnabledFactors) > 0 {
			factors = arm.EnabledFactors
		}
		if arm.MinConfidence != nil {
			th.MinConfidence = *arm.MinConfidence
		}
		if arm.MinEdge != nil {
			engineCfg.MinEdge = *arm.MinEdge
		}
		if arm.KellyFraction != nil {
			engineCfg.KellyFraction = *arm.KellyFraction
		}
	}

	return scoring.NewOrchestrator(th, s.cfg.Corrections, factors), staking.NewEngine(engineCfg)
}

func (s *PredictionService) winProbability(
	b *features.Bundle,
	res scoring.Result,
	oddsTaken, modelProb, implied float64,
	now time.Time,
) float64 {
	pc := ml.PickContext{
		ImpliedProb:      implied,
		OddsTaken:        oddsTaken,
		DiamondScore:     res.Score,
		EdgePct:          (modelProb - implied) * 100,
		EVExpected:       oddsTaken*modelProb - 1,
		PredictedProb:    modelProb,
		HoursBeforeMatch: b.Kickoff.Sub(now).Hours(),
		SteamMoveBps:     steamMoveBps(b, res.Selection),
	}
	return s.head.WinProbability(ml.Vector(b, pc))
}

func (s *PredictionService) persistPick(
	ctx context.Context,
	q MatchQuery,
	b *features.Bundle,
	out Prediction,
	oddsTaken, modelProb float64,
	now time.Time,
) (*pick.Pick, error) {
	pickID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate pick id: %w", err)
	}

	p := pick.Pick{
		ID:           pickID,
		MatchID:      q.MatchID,
		HomeTeam:     b.Home.NormalizedName,
		AwayTeam:     b.Away.NormalizedName,
		League:       q.League,
		MarketType:   out.Scoring.Selection,
		Selection:    string(out.Scoring.Selection),
		OddsTaken:    oddsTaken,
		ModelProb:    modelProb,
		Edge:         out.Quote.Edge,
		DiamondScore: out.Scoring.Score,
		KellyStake:   out.Quote.Stake,
		VariationID:  out.VariationID,
		CreatedAt:    now,
		Kickoff:      q.Kickoff,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := s.pickRepo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert pick: %w", err)
	}

	if s.variationSvc != nil && out.VariationID != "" {
		if err := s.variationSvc.RecordAssignment(ctx, q.MatchID, out.VariationID, pickID); err != nil {
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "pick placed",
		"pick_id", pickID,
		"match_id", q.MatchID,
		"market", string(p.MarketType),
		"odds", oddsTaken,
		"edge", out.Quote.Edge,
		"stake", out.Quote.Stake,
		"action", string(out.Action),
	)
	return &p, nil
}

// selectionOdds reads the bookmaker price for the orchestrator's selection.
func selectionOdds(b *features.Bundle, sel market.Type) float64 {
	if b.Current == nil {
		return 0
	}
	return snapshotOdds(*b.Current, sel)
}

// combineOdds synthesizes a double-chance price from two h2h legs.
func combineOdds(a, b float64) float64 {
	pa, pb := market.ImpliedProb(a), market.ImpliedProb(b)
	if pa == 0 || pb == 0 {
		return 0
	}
	return market.FairOdds(pa + pb)
}

func steamMoveBps(b *features.Bundle, sel market.Type) float64 {
	if b.Opening == nil || b.Current == nil {
		return 0
	}
	side := sel.Side()
	if side == "" {
		return 0
	}
	open := market.ImpliedProb(b.Opening.SideOdds(side))
	cur := market.ImpliedProb(b.Current.SideOdds(side))
	if open == 0 || cur == 0 {
		return 0
	}
	return (cur - open) * 1000
}
