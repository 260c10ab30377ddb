package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crocodileps/oddsedge/internal/domain/coach"
	"github.com/crocodileps/oddsedge/internal/domain/headtohead"
	"github.com/crocodileps/oddsedge/internal/domain/referee"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/tactical"
	"github.com/crocodileps/oddsedge/internal/domain/team"
	qb "github.com/crocodileps/oddsedge/internal/platform/querybuilder"
)

// The reference repositories are read paths over collector-maintained
// tables. Writes happen out of band, so none of them expose mutations.

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByNormalizedName(ctx context.Context, name string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("normalized_name", name)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) FindLoose(ctx context.Context, firstToken string) (team.Team, bool, error) {
	if firstToken == "" {
		return team.Team{}, false, nil
	}
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Expr("normalized_name LIKE $1 || '%'", firstToken)).
		OrderBy("normalized_name").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build loose team lookup query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("loose team lookup: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) LeagueMeans(ctx context.Context, league string) (team.LeagueMeans, bool, error) {
	query, args, err := qb.Select("*").From("league_means").
		Where(qb.Eq("league", league)).
		ToSQL()
	if err != nil {
		return team.LeagueMeans{}, false, fmt.Errorf("build get league means query: %w", err)
	}

	var row leagueMeansTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.LeagueMeans{}, false, nil
		}
		return team.LeagueMeans{}, false, fmt.Errorf("get league means: %w", err)
	}
	return team.LeagueMeans{
		League:       row.League,
		ScoredP90:    row.ScoredP90,
		ConcededP90:  row.ConcededP90,
		BTTSPct:      row.BTTSPct,
		Over25Pct:    row.Over25Pct,
		GoalsPerGame: row.GoalsPerGame,
	}, true, nil
}

type CoachRepository struct {
	db *sqlx.DB
}

func NewCoachRepository(db *sqlx.DB) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) GetByTeam(ctx context.Context, normalizedTeam string) (coach.Profile, bool, error) {
	query, args, err := qb.Select("*").From("coaches").
		Where(qb.Eq("current_team", normalizedTeam)).
		ToSQL()
	if err != nil {
		return coach.Profile{}, false, fmt.Errorf("build get coach query: %w", err)
	}

	var row coachTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return coach.Profile{}, false, nil
		}
		return coach.Profile{}, false, fmt.Errorf("get coach: %w", err)
	}
	return row.toDomain(), true, nil
}

type RefereeRepository struct {
	db *sqlx.DB
}

func NewRefereeRepository(db *sqlx.DB) *RefereeRepository {
	return &RefereeRepository{db: db}
}

func (r *RefereeRepository) GetByNormalizedName(ctx context.Context, name string) (referee.Referee, bool, error) {
	query, args, err := qb.Select("*").From("referees").
		Where(qb.Eq("normalized_name", name)).
		ToSQL()
	if err != nil {
		return referee.Referee{}, false, fmt.Errorf("build get referee query: %w", err)
	}

	var row refereeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return referee.Referee{}, false, nil
		}
		return referee.Referee{}, false, fmt.Errorf("get referee: %w", err)
	}
	return row.toDomain(), true, nil
}

type MatchupRepository struct {
	db *sqlx.DB
}

func NewMatchupRepository(db *sqlx.DB) *MatchupRepository {
	return &MatchupRepository{db: db}
}

func (r *MatchupRepository) Get(ctx context.Context, styleHome, styleAway string) (tactical.Matchup, bool, error) {
	query, args, err := qb.Select("*").From("tactical_matchups").
		Where(
			qb.Eq("style_home", styleHome),
			qb.Eq("style_away", styleAway),
		).
		ToSQL()
	if err != nil {
		return tactical.Matchup{}, false, fmt.Errorf("build get tactical matchup query: %w", err)
	}

	var row matchupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tactical.Matchup{}, false, nil
		}
		return tactical.Matchup{}, false, fmt.Errorf("get tactical matchup: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchupRepository) ListAll(ctx context.Context) ([]tactical.Matchup, error) {
	query, args, err := qb.Select("*").From("tactical_matchups").
		OrderBy("style_home", "style_away").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tactical matchups query: %w", err)
	}

	var rows []matchupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tactical matchups: %w", err)
	}

	out := make([]tactical.Matchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type HeadToHeadRepository struct {
	db *sqlx.DB
}

func NewHeadToHeadRepository(db *sqlx.DB) *HeadToHeadRepository {
	return &HeadToHeadRepository{db: db}
}

// Get expects its arguments already in canonical order; rows are stored
// once per pair.
func (r *HeadToHeadRepository) Get(ctx context.Context, teamA, teamB string) (headtohead.Record, bool, error) {
	query, args, err := qb.Select("*").From("head_to_head").
		Where(
			qb.Eq("team_a", teamA),
			qb.Eq("team_b", teamB),
		).
		ToSQL()
	if err != nil {
		return headtohead.Record{}, false, fmt.Errorf("build get head-to-head query: %w", err)
	}

	var row headToHeadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return headtohead.Record{}, false, nil
		}
		return headtohead.Record{}, false, fmt.Errorf("get head-to-head: %w", err)
	}
	return row.toDomain(), true, nil
}

type ScorerRepository struct {
	db *sqlx.DB
}

func NewScorerRepository(db *sqlx.DB) *ScorerRepository {
	return &ScorerRepository{db: db}
}

func (r *ScorerRepository) TopByTeam(ctx context.Context, normalizedTeam string, limit int) ([]scorers.Scorer, error) {
	query, args, err := qb.Select("*").From("top_scorers").
		Where(qb.Eq("team", normalizedTeam)).
		OrderBy("rank").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build top scorers query: %w", err)
	}

	var rows []scorerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list top scorers: %w", err)
	}

	out := make([]scorers.Scorer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
