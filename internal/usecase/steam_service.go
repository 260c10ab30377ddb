package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
)

// SteamAction is the validator's verdict on market movement.
type SteamAction string

const (
	SteamProceed         SteamAction = "PROCEED"
	SteamProceedBoosted  SteamAction = "PROCEED_BOOSTED"
	SteamProceedCautious SteamAction = "PROCEED_CAUTIOUS"
	SteamBlock           SteamAction = "BLOCK"
)

// SteamConfig holds the drift threshold and confidence adjustments, all in
// operator units: the threshold in basis points of implied probability, the
// adjustments in diamond-score points.
type SteamConfig struct {
	DriftBp     float64
	BoostedAdj  float64
	CautiousAdj float64
	BlockedAdj  float64
}

func DefaultSteamConfig() SteamConfig {
	return SteamConfig{
		DriftBp:     30,
		BoostedAdj:  10,
		CautiousAdj: -20,
		BlockedAdj:  -40,
	}
}

// SteamVerdict is the validator output for one candidate pick.
type SteamVerdict struct {
	Validated          bool
	Action             SteamAction
	AdjustedConfidence float64
	DeltaBp            float64
	Reason             string
}

// SteamService inspects opening-to-current Pinnacle movement on 1X2
// markets. Goal-total and BTTS picks pass through untouched, as do fixtures
// without two snapshots to compare.
type SteamService struct {
	oddsRepo odds.Repository
	cfg      SteamConfig
	logger   *logging.Logger
}

func NewSteamService(oddsRepo odds.Repository, cfg SteamConfig, logger *logging.Logger) *SteamService {
	if cfg.DriftBp <= 0 {
		cfg = DefaultSteamConfig()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SteamService{oddsRepo: oddsRepo, cfg: cfg, logger: logger}
}

// Validate scores the market move for a selection at the given confidence.
func (s *SteamService) Validate(ctx context.Context, matchID string, sel market.Type, confidence float64) (SteamVerdict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SteamService.Validate")
	defer span.End()

	passthrough := SteamVerdict{
		Validated:          false,
		Action:             SteamProceed,
		AdjustedConfidence: confidence,
	}

	switch sel {
	case market.Home, market.Away, market.DC1X, market.DCX2:
	default:
		// Draw and dc_12 have no directional side to confirm; goal totals
		// and BTTS are out of scope entirely.
		passthrough.Reason = "market not steam-validated"
		return passthrough, nil
	}

	opening, openOK, err := s.oddsRepo.Earliest(ctx, matchID, odds.BookmakerPinnacle)
	if err != nil {
		return SteamVerdict{}, fmt.Errorf("read opening snapshot: %w", err)
	}
	current, curOK, err := s.oddsRepo.Latest(ctx, matchID, odds.BookmakerPinnacle)
	if err != nil {
		return SteamVerdict{}, fmt.Errorf("read current snapshot: %w", err)
	}
	if !openOK || !curOK || opening.CollectedAt.Equal(current.CollectedAt) {
		passthrough.Reason = "insufficient snapshots for steam detection"
		return passthrough, nil
	}

	ourSide, oppSide := steamSides(sel)
	ourDelta := sideDeltaBp(opening, current, ourSide)
	oppDelta := sideDeltaBp(opening, current, oppSide)

	v := SteamVerdict{Validated: true, DeltaBp: ourDelta, AdjustedConfidence: confidence}
	switch {
	case ourDelta > s.cfg.DriftBp:
		v.Action = SteamProceedBoosted
		v.AdjustedConfidence = confidence + s.cfg.BoostedAdj
		v.Reason = fmt.Sprintf("market moved %+.0f bp toward %s", ourDelta, ourSide)
	case ourDelta < -s.cfg.DriftBp:
		v.Action = SteamBlock
		v.AdjustedConfidence = maxFloat(0, confidence+s.cfg.BlockedAdj)
		v.Reason = fmt.Sprintf("market drifted %+.0f bp against %s", ourDelta, ourSide)
	case oppDelta > s.cfg.DriftBp:
		v.Action = SteamProceedCautious
		v.AdjustedConfidence = maxFloat(0, confidence+s.cfg.CautiousAdj)
		v.Reason = fmt.Sprintf("steam %+.0f bp on opposite side %s", oppDelta, oppSide)
	default:
		v.Action = SteamProceed
		v.Reason = fmt.Sprintf("no significant move (%+.0f bp)", ourDelta)
	}

	s.logger.DebugContext(ctx, "steam validation",
		"match_id", matchID,
		"selection", string(sel),
		"action", string(v.Action),
		"delta_bp", v.DeltaBp,
		"window", current.CollectedAt.Sub(opening.CollectedAt).Round(time.Minute).String(),
	)
	return v, nil
}

// steamSides maps a 1X2 market to the h2h side whose move confirms the
// pick, and the side whose move argues against it.
func steamSides(sel market.Type) (ours, opposite string) {
	switch sel {
	case market.Home, market.DC1X:
		return "home", "away"
	case market.Away, market.DCX2:
		return "away", "home"
	default:
		return "home", "away"
	}
}

func sideDeltaBp(opening, current odds.Snapshot, side string) float64 {
	openProb := market.ImpliedProb(opening.SideOdds(side))
	curProb := market.ImpliedProb(current.SideOdds(side))
	if openProb == 0 || curProb == 0 {
		return 0
	}
	return (curProb - openProb) * 1000
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
