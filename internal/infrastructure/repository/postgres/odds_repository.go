package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crocodileps/oddsedge/internal/domain/odds"
	qb "github.com/crocodileps/oddsedge/internal/platform/querybuilder"
)

type oddsSnapshotTableModel struct {
	MatchID     string    `db:"match_id"`
	Bookmaker   string    `db:"bookmaker"`
	CollectedAt time.Time `db:"collected_at"`
	HomeOdds    float64   `db:"home_odds"`
	DrawOdds    float64   `db:"draw_odds"`
	AwayOdds    float64   `db:"away_odds"`
	TotalsLine  float64   `db:"totals_line"`
	OverOdds    float64   `db:"over_odds"`
	UnderOdds   float64   `db:"under_odds"`
	BTTSYesOdds float64   `db:"btts_yes_odds"`
	BTTSNoOdds  float64   `db:"btts_no_odds"`
}

func (m oddsSnapshotTableModel) toDomain() odds.Snapshot {
	return odds.Snapshot{
		MatchID:     m.MatchID,
		Bookmaker:   m.Bookmaker,
		CollectedAt: m.CollectedAt,
		HomeOdds:    m.HomeOdds,
		DrawOdds:    m.DrawOdds,
		AwayOdds:    m.AwayOdds,
		TotalsLine:  m.TotalsLine,
		OverOdds:    m.OverOdds,
		UnderOdds:   m.UnderOdds,
		BTTSYesOdds: m.BTTSYesOdds,
		BTTSNoOdds:  m.BTTSNoOdds,
	}
}

// OddsRepository stores collector snapshots append-only; dedup on the
// natural key keeps collector retries harmless.
type OddsRepository struct {
	db *sqlx.DB
}

func NewOddsRepository(db *sqlx.DB) *OddsRepository {
	return &OddsRepository{db: db}
}

func (r *OddsRepository) Append(ctx context.Context, snap odds.Snapshot) error {
	insertModel := oddsSnapshotTableModel{
		MatchID:     snap.MatchID,
		Bookmaker:   snap.Bookmaker,
		CollectedAt: snap.CollectedAt,
		HomeOdds:    snap.HomeOdds,
		DrawOdds:    snap.DrawOdds,
		AwayOdds:    snap.AwayOdds,
		TotalsLine:  snap.TotalsLine,
		OverOdds:    snap.OverOdds,
		UnderOdds:   snap.UnderOdds,
		BTTSYesOdds: snap.BTTSYesOdds,
		BTTSNoOdds:  snap.BTTSNoOdds,
	}
	query, args, err := qb.InsertModel("odds_snapshots", insertModel,
		"ON CONFLICT (match_id, bookmaker, collected_at) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build append odds snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append odds snapshot: %w", err)
	}
	return nil
}

func (r *OddsRepository) Latest(ctx context.Context, matchID, bookmaker string) (odds.Snapshot, bool, error) {
	return r.getOne(ctx, matchID, bookmaker, nil, "collected_at DESC")
}

func (r *OddsRepository) Earliest(ctx context.Context, matchID, bookmaker string) (odds.Snapshot, bool, error) {
	return r.getOne(ctx, matchID, bookmaker, nil, "collected_at")
}

func (r *OddsRepository) LatestBefore(ctx context.Context, matchID, bookmaker string, cutoff time.Time) (odds.Snapshot, bool, error) {
	return r.getOne(ctx, matchID, bookmaker, &cutoff, "collected_at DESC")
}

func (r *OddsRepository) getOne(ctx context.Context, matchID, bookmaker string, before *time.Time, order string) (odds.Snapshot, bool, error) {
	conditions := []qb.Condition{
		qb.Eq("match_id", matchID),
		qb.Eq("bookmaker", bookmaker),
	}
	if before != nil {
		conditions = append(conditions, qb.Lt("collected_at", *before))
	}

	query, args, err := qb.Select("*").From("odds_snapshots").
		Where(conditions...).
		OrderBy(order).
		Limit(1).
		ToSQL()
	if err != nil {
		return odds.Snapshot{}, false, fmt.Errorf("build get odds snapshot query: %w", err)
	}

	var row oddsSnapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return odds.Snapshot{}, false, nil
		}
		return odds.Snapshot{}, false, fmt.Errorf("get odds snapshot: %w", err)
	}
	return row.toDomain(), true, nil
}
