package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crocodileps/oddsedge/internal/domain/pick"
	qb "github.com/crocodileps/oddsedge/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) Insert(ctx context.Context, p pick.Pick) error {
	insertModel := pickInsertModel{
		ID:           p.ID,
		MatchID:      p.MatchID,
		HomeTeam:     p.HomeTeam,
		AwayTeam:     p.AwayTeam,
		League:       p.League,
		MarketType:   string(p.MarketType),
		Selection:    p.Selection,
		OddsTaken:    p.OddsTaken,
		ModelProb:    p.ModelProb,
		Edge:         p.Edge,
		DiamondScore: p.DiamondScore,
		KellyStake:   p.KellyStake,
		VariationID:  sql.NullString{String: p.VariationID, Valid: p.VariationID != ""},
		CreatedAt:    p.CreatedAt,
		KickoffAt:    p.Kickoff,
	}
	query, args, err := qb.InsertModel("picks", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert pick query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert pick: %w", err)
	}
	return nil
}

func (r *PickRepository) GetByID(ctx context.Context, id string) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build get pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PickRepository) List(ctx context.Context, f pick.Filter) ([]pick.Pick, error) {
	conditions := make([]qb.Condition, 0, 3)
	if f.MarketType != "" {
		conditions = append(conditions, qb.Eq("market_type", f.MarketType))
	}
	if f.Resolved != nil {
		conditions = append(conditions, qb.Eq("is_resolved", *f.Resolved))
	}
	if !f.CreatedAfter.IsZero() {
		conditions = append(conditions, qb.Gte("created_at", f.CreatedAfter))
	}

	builder := qb.Select("*").From("picks").
		Where(conditions...).
		OrderBy("created_at DESC", "id")
	if f.Limit > 0 {
		builder = builder.Limit(f.Limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) ListPendingClosing(ctx context.Context, now time.Time, limit int) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.IsNull("closing_odds"),
			qb.Lt("kickoff_at", now),
		).
		OrderBy("kickoff_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending closing query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks pending closing: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// SetClosing is guarded on closing_odds IS NULL so concurrent resolver runs
// stamp each pick at most once.
func (r *PickRepository) SetClosing(ctx context.Context, id string, closingOdds, clvPct float64) (bool, error) {
	query, args, err := qb.Update("picks").
		Set("closing_odds", closingOdds).
		Set("clv_pct", clvPct).
		Where(
			qb.Eq("id", id),
			qb.IsNull("closing_odds"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set closing odds query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set closing odds: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set closing odds rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *PickRepository) ListPendingOutcome(ctx context.Context, cutoff time.Time, limit int) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("is_resolved", false),
			qb.Lte("kickoff_at", cutoff),
		).
		OrderBy("kickoff_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending outcome query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks pending outcome: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Settle is guarded on is_resolved = false. The posterior increment for
// the pick's arm runs in the same transaction, keyed off the settle's
// rows-affected, so a crash between the two statements loses neither.
func (r *PickRepository) Settle(ctx context.Context, id string, winner bool, profitLoss float64, at time.Time, variationID string) (bool, error) {
	query, args, err := qb.Update("picks").
		Set("is_resolved", true).
		Set("is_winner", winner).
		Set("profit_loss", profitLoss).
		Set("resolved_at", at).
		Where(
			qb.Eq("id", id),
			qb.Eq("is_resolved", false),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build settle pick query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin settle pick tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("settle pick: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("settle pick rows affected: %w", err)
	}

	if affected == 1 && variationID != "" {
		column := "beta"
		if winner {
			column = "alpha"
		}
		posterior, posteriorArgs, err := qb.Update("variations").
			SetExpr(column, column+" + 1").
			Where(qb.Eq("id", variationID)).
			ToSQL()
		if err != nil {
			return false, fmt.Errorf("build settle posterior query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, posterior, posteriorArgs...); err != nil {
			return false, fmt.Errorf("record settle posterior: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit settle pick: %w", err)
	}
	return affected == 1, nil
}

func (r *PickRepository) Performance(ctx context.Context, since time.Time) ([]pick.PerformanceRow, error) {
	query, args, err := qb.Select(
		"market_type",
		"COUNT(*) AS picks",
		"COUNT(*) FILTER (WHERE is_winner) AS wins",
		"COALESCE(AVG(clv_pct), 0) AS avg_clv_pct",
		"COALESCE(SUM(profit_loss), 0) AS total_profit",
		"COALESCE(SUM(kelly_stake), 0) AS total_staked",
	).From("picks").
		Where(
			qb.Eq("is_resolved", true),
			qb.Gte("created_at", since),
		).
		GroupBy("market_type").
		OrderBy("market_type").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build pick performance query: %w", err)
	}

	var rows []performanceRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate pick performance: %w", err)
	}

	out := make([]pick.PerformanceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, pick.PerformanceRow{
			MarketType:  row.MarketType,
			Picks:       row.Picks,
			Wins:        row.Wins,
			AvgCLVPct:   row.AvgCLVPct,
			TotalProfit: row.TotalProfit,
			TotalStaked: row.TotalStaked,
		})
	}
	return out, nil
}
