package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crocodileps/oddsedge/internal/domain/result"
	qb "github.com/crocodileps/oddsedge/internal/platform/querybuilder"
)

type matchResultTableModel struct {
	MatchID        string    `db:"match_id"`
	HomeTeam       string    `db:"home_team"`
	AwayTeam       string    `db:"away_team"`
	NormalizedHome string    `db:"normalized_home"`
	NormalizedAway string    `db:"normalized_away"`
	KickoffAt      time.Time `db:"kickoff_at"`
	HomeScore      int       `db:"home_score"`
	AwayScore      int       `db:"away_score"`
	HTHomeScore    int       `db:"ht_home_score"`
	HTAwayScore    int       `db:"ht_away_score"`
	Finished       bool      `db:"finished"`
}

func (m matchResultTableModel) toDomain() result.MatchResult {
	return result.MatchResult{
		MatchID:        m.MatchID,
		HomeTeam:       m.HomeTeam,
		AwayTeam:       m.AwayTeam,
		NormalizedHome: m.NormalizedHome,
		NormalizedAway: m.NormalizedAway,
		Kickoff:        m.KickoffAt,
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		HTHomeScore:    m.HTHomeScore,
		HTAwayScore:    m.HTAwayScore,
		Finished:       m.Finished,
	}
}

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Upsert(ctx context.Context, res result.MatchResult) error {
	insertModel := matchResultTableModel{
		MatchID:        res.MatchID,
		HomeTeam:       res.HomeTeam,
		AwayTeam:       res.AwayTeam,
		NormalizedHome: res.NormalizedHome,
		NormalizedAway: res.NormalizedAway,
		KickoffAt:      res.Kickoff,
		HomeScore:      res.HomeScore,
		AwayScore:      res.AwayScore,
		HTHomeScore:    res.HTHomeScore,
		HTAwayScore:    res.HTAwayScore,
		Finished:       res.Finished,
	}
	query, args, err := qb.InsertModel("match_results", insertModel, `ON CONFLICT (match_id)
DO UPDATE SET
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    normalized_home = EXCLUDED.normalized_home,
    normalized_away = EXCLUDED.normalized_away,
    kickoff_at = EXCLUDED.kickoff_at,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    ht_home_score = EXCLUDED.ht_home_score,
    ht_away_score = EXCLUDED.ht_away_score,
    finished = EXCLUDED.finished`)
	if err != nil {
		return fmt.Errorf("build upsert match result query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match result: %w", err)
	}
	return nil
}

func (r *ResultRepository) GetByMatchID(ctx context.Context, matchID string) (result.MatchResult, bool, error) {
	query, args, err := qb.Select("*").From("match_results").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return result.MatchResult{}, false, fmt.Errorf("build get match result query: %w", err)
	}

	var row matchResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return result.MatchResult{}, false, nil
		}
		return result.MatchResult{}, false, fmt.Errorf("get match result: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *ResultRepository) FindByTeams(ctx context.Context, normalizedHome, normalizedAway string, around time.Time, window time.Duration) ([]result.MatchResult, error) {
	query, args, err := qb.Select("*").From("match_results").
		Where(
			qb.Eq("normalized_home", normalizedHome),
			qb.Eq("normalized_away", normalizedAway),
			qb.Gte("kickoff_at", around.Add(-window)),
			qb.Lte("kickoff_at", around.Add(window)),
		).
		OrderBy("kickoff_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find match results by teams query: %w", err)
	}

	var rows []matchResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find match results by teams: %w", err)
	}

	out := make([]result.MatchResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
