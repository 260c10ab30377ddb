// Package memory holds in-process repository implementations used by tests
// and by local development without a database.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/crocodileps/oddsedge/internal/domain/coach"
	"github.com/crocodileps/oddsedge/internal/domain/headtohead"
	"github.com/crocodileps/oddsedge/internal/domain/referee"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/tactical"
	"github.com/crocodileps/oddsedge/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
	means map[string]team.LeagueMeans
}

func NewTeamRepository(teams []team.Team, means []team.LeagueMeans) *TeamRepository {
	r := &TeamRepository{
		items: make(map[string]team.Team, len(teams)),
		means: make(map[string]team.LeagueMeans, len(means)),
	}
	for _, t := range teams {
		r.items[t.NormalizedName] = t
	}
	for _, m := range means {
		r.means[m.League] = m
	}
	return r
}

func (r *TeamRepository) GetByNormalizedName(_ context.Context, name string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[name]
	return t, ok, nil
}

func (r *TeamRepository) FindLoose(_ context.Context, firstToken string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if firstToken == "" {
		return team.Team{}, false, nil
	}
	for name, t := range r.items {
		if strings.HasPrefix(name, firstToken) {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) LeagueMeans(_ context.Context, league string) (team.LeagueMeans, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.means[league]
	return m, ok, nil
}

type CoachRepository struct {
	mu    sync.RWMutex
	items map[string]coach.Profile
}

func NewCoachRepository(profiles []coach.Profile) *CoachRepository {
	r := &CoachRepository{items: make(map[string]coach.Profile, len(profiles))}
	for _, p := range profiles {
		r.items[p.CurrentTeam] = p
	}
	return r
}

func (r *CoachRepository) GetByTeam(_ context.Context, normalizedTeam string) (coach.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[normalizedTeam]
	return p, ok, nil
}

type RefereeRepository struct {
	mu    sync.RWMutex
	items map[string]referee.Referee
}

func NewRefereeRepository(refs []referee.Referee) *RefereeRepository {
	r := &RefereeRepository{items: make(map[string]referee.Referee, len(refs))}
	for _, ref := range refs {
		r.items[ref.NormalizedName] = ref
	}
	return r
}

func (r *RefereeRepository) GetByNormalizedName(_ context.Context, name string) (referee.Referee, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, ok := r.items[name]
	return ref, ok, nil
}

type MatchupRepository struct {
	mu    sync.RWMutex
	items map[string]tactical.Matchup
}

func matchupKey(styleHome, styleAway string) string {
	return styleHome + "|" + styleAway
}

func NewMatchupRepository(rows []tactical.Matchup) *MatchupRepository {
	r := &MatchupRepository{items: make(map[string]tactical.Matchup, len(rows))}
	for _, m := range rows {
		r.items[matchupKey(m.StyleHome, m.StyleAway)] = m
	}
	return r
}

func (r *MatchupRepository) Get(_ context.Context, styleHome, styleAway string) (tactical.Matchup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchupKey(styleHome, styleAway)]
	return m, ok, nil
}

func (r *MatchupRepository) ListAll(_ context.Context) ([]tactical.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tactical.Matchup, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}

type HeadToHeadRepository struct {
	mu    sync.RWMutex
	items map[string]headtohead.Record
}

func h2hKey(a, b string) string {
	return a + "|" + b
}

func NewHeadToHeadRepository(rows []headtohead.Record) *HeadToHeadRepository {
	r := &HeadToHeadRepository{items: make(map[string]headtohead.Record, len(rows))}
	for _, rec := range rows {
		a, b, swapped := headtohead.Canonical(rec.TeamA, rec.TeamB)
		if swapped {
			rec.TeamA, rec.TeamB = a, b
			rec.HomeWins, rec.AwayWins = rec.AwayWins, rec.HomeWins
		}
		r.items[h2hKey(a, b)] = rec
	}
	return r
}

func (r *HeadToHeadRepository) Get(_ context.Context, teamA, teamB string) (headtohead.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[h2hKey(teamA, teamB)]
	return rec, ok, nil
}

type ScorerRepository struct {
	mu    sync.RWMutex
	items map[string][]scorers.Scorer
}

func NewScorerRepository(rows []scorers.Scorer) *ScorerRepository {
	r := &ScorerRepository{items: make(map[string][]scorers.Scorer)}
	for _, s := range rows {
		r.items[s.Team] = append(r.items[s.Team], s)
	}
	return r
}

func (r *ScorerRepository) TopByTeam(_ context.Context, normalizedTeam string, limit int) ([]scorers.Scorer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.items[normalizedTeam]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]scorers.Scorer, len(list))
	copy(out, list)
	return out, nil
}
