package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/domain/result"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
)

const resolverBatchLimit = 500

// ResolverConfig carries the settlement windows. GracePeriod delays
// outcome matching past kickoff; MatchWindow bounds the result search
// around the pick's stored kickoff; EscalateAfter promotes a stuck pick
// into the operator log.
type ResolverConfig struct {
	GracePeriod   time.Duration
	MatchWindow   time.Duration
	EscalateAfter time.Duration
	PoolSize      int
}

func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		GracePeriod:   2 * time.Hour,
		MatchWindow:   24 * time.Hour,
		EscalateAfter: 72 * time.Hour,
		PoolSize:      8,
	}
}

// ResolverStats summarizes one resolver run.
type ResolverStats struct {
	ClosingScanned int
	ClosingSet     int
	OutcomeScanned int
	Settled        int
	LeftPending    int
	Escalated      int
}

// ResolverService runs the two settlement passes over pending picks. Both
// passes are idempotent: the repository guards each mutation on its null
// field, so overlapping runs commute.
type ResolverService struct {
	picks    pick.Repository
	oddsRepo odds.Repository
	results  result.Repository
	cfg      ResolverConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewResolverService(
	picks pick.Repository,
	oddsRepo odds.Repository,
	results result.Repository,
	cfg ResolverConfig,
	logger *logging.Logger,
) *ResolverService {
	if cfg.GracePeriod <= 0 {
		cfg = DefaultResolverConfig()
	}
	if cfg.PoolSize < 1 {
		cfg.PoolSize = DefaultResolverConfig().PoolSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolverService{
		picks:    picks,
		oddsRepo: oddsRepo,
		results:  results,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the closing-line pass followed by the outcome pass.
func (s *ResolverService) Run(ctx context.Context) (ResolverStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.Run")
	defer span.End()

	stats := ResolverStats{}

	closingSet, scanned, err := s.closingPass(ctx)
	stats.ClosingScanned = scanned
	stats.ClosingSet = closingSet
	if err != nil {
		return stats, err
	}

	outErr := s.outcomePass(ctx, &stats)
	if outErr != nil {
		return stats, outErr
	}

	s.logger.InfoContext(ctx, "resolver run finished",
		"closing_scanned", stats.ClosingScanned,
		"closing_set", stats.ClosingSet,
		"outcome_scanned", stats.OutcomeScanned,
		"settled", stats.Settled,
		"left_pending", stats.LeftPending,
		"escalated", stats.Escalated,
	)
	return stats, nil
}

// closingPass stamps closing odds and CLV on picks past kickoff. The
// closing price is the last Pinnacle snapshot strictly before kickoff.
func (s *ResolverService) closingPass(ctx context.Context) (set, scanned int, err error) {
	now := s.now().UTC()
	pending, err := s.picks.ListPendingClosing(ctx, now, resolverBatchLimit)
	if err != nil {
		return 0, 0, fmt.Errorf("list picks pending closing: %w", err)
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	pool, err := ants.NewPool(s.cfg.PoolSize)
	if err != nil {
		return 0, len(pending), fmt.Errorf("create resolver pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var setCount atomic.Int64
	for _, p := range pending {
		p := p
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			if s.setClosing(ctx, p) {
				setCount.Add(1)
			}
		}); submitErr != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "closing pass submit failed", "pick_id", p.ID, "error", submitErr)
		}
	}
	wg.Wait()

	return int(setCount.Load()), len(pending), nil
}

func (s *ResolverService) setClosing(ctx context.Context, p pick.Pick) bool {
	snap, ok, err := s.oddsRepo.LatestBefore(ctx, p.MatchID, odds.BookmakerPinnacle, p.Kickoff)
	if err != nil {
		s.logger.WarnContext(ctx, "closing snapshot read failed", "pick_id", p.ID, "error", err)
		return false
	}
	if !ok {
		return false
	}

	closing := snapshotOdds(snap, p.MarketType)
	if closing <= 1.0 {
		return false
	}

	updated, err := s.picks.SetClosing(ctx, p.ID, closing, pick.CLV(p.OddsTaken, closing))
	if err != nil {
		s.logger.WarnContext(ctx, "set closing odds failed", "pick_id", p.ID, "error", err)
		return false
	}
	return updated
}

// outcomePass settles picks past kickoff plus grace against MatchResult
// rows. An ambiguous match, two candidate results inside the window, stays
// pending rather than risking a wrong settlement.
func (s *ResolverService) outcomePass(ctx context.Context, stats *ResolverStats) error {
	now := s.now().UTC()
	cutoff := now.Add(-s.cfg.GracePeriod)
	pending, err := s.picks.ListPendingOutcome(ctx, cutoff, resolverBatchLimit)
	if err != nil {
		return fmt.Errorf("list picks pending outcome: %w", err)
	}
	stats.OutcomeScanned = len(pending)
	if len(pending) == 0 {
		return nil
	}

	pool, err := ants.NewPool(s.cfg.PoolSize)
	if err != nil {
		return fmt.Errorf("create resolver pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var settled, left, escalated atomic.Int64
	for _, p := range pending {
		p := p
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			switch s.settleOne(ctx, p, now) {
			case settleDone:
				settled.Add(1)
			case settleEscalated:
				left.Add(1)
				escalated.Add(1)
			default:
				left.Add(1)
			}
		}); submitErr != nil {
			wg.Done()
			left.Add(1)
			s.logger.WarnContext(ctx, "outcome pass submit failed", "pick_id", p.ID, "error", submitErr)
		}
	}
	wg.Wait()

	stats.Settled = int(settled.Load())
	stats.LeftPending = int(left.Load())
	stats.Escalated = int(escalated.Load())
	return nil
}

type settleStatus int

const (
	settlePending settleStatus = iota
	settleDone
	settleEscalated
)

func (s *ResolverService) settleOne(ctx context.Context, p pick.Pick, now time.Time) settleStatus {
	res, ok := s.matchResult(ctx, p)
	if !ok {
		if now.Sub(p.Kickoff) > s.cfg.EscalateAfter {
			s.logger.ErrorContext(ctx, "pick settlement overdue, needs operator attention",
				"pick_id", p.ID,
				"match_id", p.MatchID,
				"kickoff", p.Kickoff,
				"age", now.Sub(p.Kickoff).Round(time.Hour).String(),
			)
			return settleEscalated
		}
		return settlePending
	}

	won, settleable := market.Settle(p.MarketType, market.Outcome{
		HomeGoals: res.HomeScore,
		AwayGoals: res.AwayScore,
	})
	if !settleable {
		s.logger.WarnContext(ctx, "pick has unsettleable market", "pick_id", p.ID, "market", string(p.MarketType))
		return settlePending
	}

	profit := pick.SettledProfit(p.OddsTaken, p.KellyStake, won)
	// The repository bumps the arm's posterior in the same transaction, so
	// a failed settle leaves both the pick and the posterior untouched and
	// the next run retries the pair together.
	if _, err := s.picks.Settle(ctx, p.ID, won, profit, now, p.VariationID); err != nil {
		s.logger.WarnContext(ctx, "settle pick failed", "pick_id", p.ID, "error", err)
		return settlePending
	}
	return settleDone
}

// matchResult finds exactly one finished result for the pick. Match id is
// authoritative; the team-name window is the fallback for collectors that
// key results differently.
func (s *ResolverService) matchResult(ctx context.Context, p pick.Pick) (result.MatchResult, bool) {
	if res, ok, err := s.results.GetByMatchID(ctx, p.MatchID); err != nil {
		s.logger.WarnContext(ctx, "result lookup failed", "pick_id", p.ID, "error", err)
		return result.MatchResult{}, false
	} else if ok && res.Finished {
		return res, true
	}

	candidates, err := s.results.FindByTeams(ctx, p.HomeTeam, p.AwayTeam, p.Kickoff, s.cfg.MatchWindow)
	if err != nil {
		s.logger.WarnContext(ctx, "result window search failed", "pick_id", p.ID, "error", err)
		return result.MatchResult{}, false
	}

	finished := candidates[:0]
	for _, c := range candidates {
		if c.Finished {
			finished = append(finished, c)
		}
	}
	if len(finished) != 1 {
		if len(finished) > 1 {
			s.logger.WarnContext(ctx, "ambiguous result match, leaving pick pending",
				"pick_id", p.ID,
				"candidates", len(finished),
			)
		}
		return result.MatchResult{}, false
	}
	return finished[0], true
}

// snapshotOdds reads the price for a pick's market from a snapshot,
// synthesizing double-chance prices from the h2h legs.
func snapshotOdds(snap odds.Snapshot, mt market.Type) float64 {
	switch mt {
	case market.Home, market.Draw, market.Away:
		return snap.SideOdds(mt.Side())
	case market.Over25:
		return snap.OverOdds
	case market.Under25:
		return snap.UnderOdds
	case market.BTTSYes:
		return snap.BTTSYesOdds
	case market.BTTSNo:
		return snap.BTTSNoOdds
	case market.DC1X:
		return combineOdds(snap.HomeOdds, snap.DrawOdds)
	case market.DCX2:
		return combineOdds(snap.AwayOdds, snap.DrawOdds)
	case market.DC12:
		return combineOdds(snap.HomeOdds, snap.AwayOdds)
	default:
		return 0
	}
}
