package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/coach"
	"github.com/crocodileps/oddsedge/internal/domain/features"
	"github.com/crocodileps/oddsedge/internal/domain/headtohead"
	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/referee"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/tactical"
	"github.com/crocodileps/oddsedge/internal/domain/team"
	"github.com/crocodileps/oddsedge/internal/platform/cache"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
	"github.com/crocodileps/oddsedge/internal/platform/names"
)

const topScorerLimit = 5

// MatchQuery identifies the fixture a caller wants evaluated.
type MatchQuery struct {
	MatchID  string
	HomeTeam string
	AwayTeam string
	League   string
	Kickoff  time.Time
	Referee  string
	Target   market.TargetMarket
}

// FeatureService assembles the per-fixture feature bundle. Every reference
// lookup is best effort: a missing row degrades to league means downstream,
// it never fails the request.
type FeatureService struct {
	teams        team.Repository
	coaches      coach.Repository
	referees     referee.Repository
	matchups     tactical.Repository
	h2h          headtohead.Repository
	scorerRepo   scorers.Repository
	availability scorers.AvailabilityFeed
	oddsRepo     odds.Repository
	store        *cache.Store
	logger       *logging.Logger
	now          func() time.Time
}

func NewFeatureService(
	teams team.Repository,
	coaches coach.Repository,
	referees referee.Repository,
	matchups tactical.Repository,
	h2h headtohead.Repository,
	scorerRepo scorers.Repository,
	availability scorers.AvailabilityFeed,
	oddsRepo odds.Repository,
	store *cache.Store,
	logger *logging.Logger,
) *FeatureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FeatureService{
		teams:        teams,
		coaches:      coaches,
		referees:     referees,
		matchups:     matchups,
		h2h:          h2h,
		scorerRepo:   scorerRepo,
		availability: availability,
		oddsRepo:     oddsRepo,
		store:        store,
		logger:       logger,
		now:          time.Now,
	}
}

// Assemble builds the bundle for one fixture. It returns ErrInvalidInput
// for an unusable query; reference gaps are filled, not surfaced.
func (s *FeatureService) Assemble(ctx context.Context, q MatchQuery) (*features.Bundle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureService.Assemble")
	defer span.End()

	normHome := names.Normalize(q.HomeTeam)
	normAway := names.Normalize(q.AwayTeam)
	if normHome == "" || normAway == "" || normHome == normAway {
		return nil, ErrInvalidInput
	}

	b := &features.Bundle{
		League:  q.League,
		Kickoff: q.Kickoff,
		Target:  q.Target,
	}

	b.Home, b.HomeFound = s.lookupTeam(ctx, q.HomeTeam, normHome)
	b.Away, b.AwayFound = s.lookupTeam(ctx, q.AwayTeam, normAway)
	b.Home.NormalizedName = normHome
	b.Away.NormalizedName = normAway

	if means, ok, err := s.teams.LeagueMeans(ctx, q.League); err != nil {
		s.logger.WarnContext(ctx, "league means lookup failed", "league", q.League, "error", err)
	} else if ok {
		b.Means = means
	}

	if p, ok, err := s.coaches.GetByTeam(ctx, normHome); err != nil {
		s.logger.WarnContext(ctx, "coach lookup failed", "team", normHome, "error", err)
	} else if ok {
		b.HomeCoach = &p
	}
	if p, ok, err := s.coaches.GetByTeam(ctx, normAway); err != nil {
		s.logger.WarnContext(ctx, "coach lookup failed", "team", normAway, "error", err)
	} else if ok {
		b.AwayCoach = &p
	}

	if strings.TrimSpace(q.Referee) != "" {
		if r, ok, err := s.referees.GetByNormalizedName(ctx, names.Normalize(q.Referee)); err != nil {
			s.logger.WarnContext(ctx, "referee lookup failed", "referee", q.Referee, "error", err)
		} else if ok {
			b.Referee = &r
		}
	}

	b.Matchup, b.MatchupFound = s.lookupMatchup(ctx, b.Home.PlayingStyle, b.Away.PlayingStyle)

	s.attachHeadToHead(ctx, b, normHome, normAway)

	b.HomeScorers = s.lookupScorers(ctx, normHome)
	b.AwayScorers = s.lookupScorers(ctx, normAway)

	if snap, ok, err := s.oddsRepo.Earliest(ctx, q.MatchID, odds.BookmakerPinnacle); err != nil {
		s.logger.WarnContext(ctx, "opening odds lookup failed", "match_id", q.MatchID, "error", err)
	} else if ok {
		b.Opening = &snap
	}
	if snap, ok, err := s.oddsRepo.Latest(ctx, q.MatchID, odds.BookmakerPinnacle); err != nil {
		s.logger.WarnContext(ctx, "current odds lookup failed", "match_id", q.MatchID, "error", err)
	} else if ok {
		b.Current = &snap
	}

	b.FillDefaults()
	b.Derive()
	return b, nil
}

func (s *FeatureService) lookupTeam(ctx context.Context, raw, normalized string) (team.Team, bool) {
	t, ok, err := s.teams.GetByNormalizedName(ctx, normalized)
	if err != nil {
		s.logger.WarnContext(ctx, "team lookup failed", "team", raw, "error", err)
		return team.Team{Name: raw}, false
	}
	if ok {
		return t, true
	}

	// Providers spell clubs slightly differently; the first token usually
	// survives the variations.
	t, ok, err = s.teams.FindLoose(ctx, names.FirstToken(normalized))
	if err != nil {
		s.logger.WarnContext(ctx, "loose team lookup failed", "team", raw, "error", err)
		return team.Team{Name: raw}, false
	}
	if !ok {
		return team.Team{Name: raw}, false
	}
	return t, true
}

func (s *FeatureService) lookupMatchup(ctx context.Context, styleHome, styleAway string) (tactical.Matchup, bool) {
	load := func(ctx context.Context) (any, error) {
		m, ok, err := s.matchups.Get(ctx, styleHome, styleAway)
		if err != nil {
			return nil, err
		}
		if !ok {
			m, ok, err = s.matchups.Get(ctx, tactical.FallbackStyle, tactical.FallbackStyle)
			if err != nil || !ok {
				return nil, err
			}
		}
		return m, nil
	}

	var loaded any
	var err error
	if s.store != nil {
		loaded, err = s.store.GetOrLoad(ctx, "matchup:"+styleHome+":"+styleAway, load)
	} else {
		loaded, err = load(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "matchup lookup failed", "style_home", styleHome, "style_away", styleAway, "error", err)
		return tactical.Matchup{}, false
	}
	m, ok := loaded.(tactical.Matchup)
	return m, ok
}

func (s *FeatureService) attachHeadToHead(ctx context.Context, b *features.Bundle, normHome, normAway string) {
	a, z, swapped := headtohead.Canonical(normHome, normAway)
	rec, ok, err := s.h2h.Get(ctx, a, z)
	if err != nil {
		s.logger.WarnContext(ctx, "head-to-head lookup failed", "team_a", a, "team_b", z, "error", err)
		return
	}
	if !ok {
		return
	}
	if swapped {
		rec.HomeWins, rec.AwayWins = rec.AwayWins, rec.HomeWins
	}
	b.H2H = &rec
}

func (s *FeatureService) lookupScorers(ctx context.Context, normalizedTeam string) []scorers.Scorer {
	list, err := s.scorerRepo.TopByTeam(ctx, normalizedTeam, topScorerLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "top scorer lookup failed", "team", normalizedTeam, "error", err)
		return nil
	}
	for i := range list {
		list[i].Available = true
	}
	if s.availability == nil || len(list) == 0 {
		return list
	}

	out, err := s.availability.UnavailablePlayers(ctx, normalizedTeam)
	if err != nil {
		// The injury feed degrades to everyone-available, never fails assembly.
		s.logger.WarnContext(ctx, "injury feed unavailable", "team", normalizedTeam, "error", err)
		return list
	}
	for i := range list {
		if reason, absent := out[names.Normalize(list[i].PlayerName)]; absent {
			list[i].Available = false
			list[i].AbsenceReason = reason
		}
	}
	return list
}
