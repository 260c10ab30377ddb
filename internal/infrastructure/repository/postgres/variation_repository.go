package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/crocodileps/oddsedge/internal/domain/variation"
	qb "github.com/crocodileps/oddsedge/internal/platform/querybuilder"
)

type variationTableModel struct {
	ID             string          `db:"id"`
	Name           string          `db:"name"`
	EnabledFactors pq.StringArray  `db:"enabled_factors"`
	MinEdge        sql.NullFloat64 `db:"min_edge"`
	MinConfidence  sql.NullFloat64 `db:"min_confidence"`
	KellyFraction  sql.NullFloat64 `db:"kelly_fraction"`
	TrafficWeight  float64         `db:"traffic_weight"`
	Alpha          float64         `db:"alpha"`
	Beta           float64         `db:"beta"`
	IsControl      bool            `db:"is_control"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      time.Time       `db:"created_at"`
}

func (m variationTableModel) toDomain() variation.Variation {
	return variation.Variation{
		ID:             m.ID,
		Name:           m.Name,
		EnabledFactors: []string(m.EnabledFactors),
		MinEdge:        nullFloatToPtr(m.MinEdge),
		MinConfidence:  nullFloatToPtr(m.MinConfidence),
		KellyFraction:  nullFloatToPtr(m.KellyFraction),
		TrafficWeight:  m.TrafficWeight,
		Alpha:          m.Alpha,
		Beta:           m.Beta,
		IsControl:      m.IsControl,
		CreatedAt:      m.CreatedAt,
	}
}

type assignmentTableModel struct {
	PickID      string    `db:"pick_id"`
	MatchID     string    `db:"match_id"`
	VariationID string    `db:"variation_id"`
	AssignedAt  time.Time `db:"assigned_at"`
}

type VariationRepository struct {
	db *sqlx.DB
}

func NewVariationRepository(db *sqlx.DB) *VariationRepository {
	return &VariationRepository{db: db}
}

func (r *VariationRepository) ListActive(ctx context.Context) ([]variation.Variation, error) {
	query, args, err := qb.Select("*").From("variations").
		Where(qb.Eq("is_active", true)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active variations query: %w", err)
	}

	var rows []variationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active variations: %w", err)
	}

	out := make([]variation.Variation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *VariationRepository) GetByID(ctx context.Context, id string) (variation.Variation, bool, error) {
	query, args, err := qb.Select("*").From("variations").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return variation.Variation{}, false, fmt.Errorf("build get variation query: %w", err)
	}

	var row variationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return variation.Variation{}, false, nil
		}
		return variation.Variation{}, false, fmt.Errorf("get variation: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *VariationRepository) SaveAssignment(ctx context.Context, a variation.Assignment) error {
	insertModel := assignmentTableModel{
		PickID:      a.PickID,
		MatchID:     a.MatchID,
		VariationID: a.VariationID,
		AssignedAt:  a.AssignedAt,
	}
	query, args, err := qb.InsertModel("variation_assignments", insertModel,
		"ON CONFLICT (pick_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build save variation assignment query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save variation assignment: %w", err)
	}
	return nil
}

func (r *VariationRepository) AssignmentByPick(ctx context.Context, pickID string) (variation.Assignment, bool, error) {
	query, args, err := qb.Select("*").From("variation_assignments").
		Where(qb.Eq("pick_id", pickID)).
		ToSQL()
	if err != nil {
		return variation.Assignment{}, false, fmt.Errorf("build get variation assignment query: %w", err)
	}

	var row assignmentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return variation.Assignment{}, false, nil
		}
		return variation.Assignment{}, false, fmt.Errorf("get variation assignment: %w", err)
	}
	return variation.Assignment{
		PickID:      row.PickID,
		MatchID:     row.MatchID,
		VariationID: row.VariationID,
		AssignedAt:  row.AssignedAt,
	}, true, nil
}

