package postgres

import (
	"database/sql"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/pick"
)

type pickTableModel struct {
	ID           string          `db:"id"`
	MatchID      string          `db:"match_id"`
	HomeTeam     string          `db:"home_team"`
	AwayTeam     string          `db:"away_team"`
	League       string          `db:"league"`
	MarketType   string          `db:"market_type"`
	Selection    string          `db:"selection"`
	OddsTaken    float64         `db:"odds_taken"`
	ModelProb    float64         `db:"model_prob"`
	Edge         float64         `db:"edge"`
	DiamondScore float64         `db:"diamond_score"`
	KellyStake   float64         `db:"kelly_stake"`
	VariationID  sql.NullString  `db:"variation_id"`
	CreatedAt    time.Time       `db:"created_at"`
	KickoffAt    time.Time       `db:"kickoff_at"`
	IsResolved   bool            `db:"is_resolved"`
	IsWinner     bool            `db:"is_winner"`
	ClosingOdds  sql.NullFloat64 `db:"closing_odds"`
	CLVPct       sql.NullFloat64 `db:"clv_pct"`
	ProfitLoss   sql.NullFloat64 `db:"profit_loss"`
	ResolvedAt   sql.NullTime    `db:"resolved_at"`
}

type pickInsertModel struct {
	ID           string         `db:"id"`
	MatchID      string         `db:"match_id"`
	HomeTeam     string         `db:"home_team"`
	AwayTeam     string         `db:"away_team"`
	League       string         `db:"league"`
	MarketType   string         `db:"market_type"`
	Selection    string         `db:"selection"`
	OddsTaken    float64        `db:"odds_taken"`
	ModelProb    float64        `db:"model_prob"`
	Edge         float64        `db:"edge"`
	DiamondScore float64        `db:"diamond_score"`
	KellyStake   float64        `db:"kelly_stake"`
	VariationID  sql.NullString `db:"variation_id"`
	CreatedAt    time.Time      `db:"created_at"`
	KickoffAt    time.Time      `db:"kickoff_at"`
}

func (m pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		ID:           m.ID,
		MatchID:      m.MatchID,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		League:       m.League,
		MarketType:   market.Type(m.MarketType),
		Selection:    m.Selection,
		OddsTaken:    m.OddsTaken,
		ModelProb:    m.ModelProb,
		Edge:         m.Edge,
		DiamondScore: m.DiamondScore,
		KellyStake:   m.KellyStake,
		VariationID:  m.VariationID.String,
		CreatedAt:    m.CreatedAt,
		Kickoff:      m.KickoffAt,
		Resolved:     m.IsResolved,
		IsWinner:     m.IsWinner,
		ClosingOdds:  nullFloatToPtr(m.ClosingOdds),
		CLVPct:       nullFloatToPtr(m.CLVPct),
		ProfitLoss:   nullFloatToPtr(m.ProfitLoss),
		ResolvedAt:   nullTimeToPtr(m.ResolvedAt),
	}
}

type performanceRowModel struct {
	MarketType  string  `db:"market_type"`
	Picks       int     `db:"picks"`
	Wins        int     `db:"wins"`
	AvgCLVPct   float64 `db:"avg_clv_pct"`
	TotalProfit float64 `db:"total_profit"`
	TotalStaked float64 `db:"total_staked"`
}
