package httpapi

import (
	"context"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

type createPredictionRequest struct {
	MatchID  string `json:"match_id" validate:"required,max=120"`
	HomeTeam string `json:"home_team" validate:"required,max=120"`
	AwayTeam string `json:"away_team" validate:"required,max=120"`
	League   string `json:"league" validate:"omitempty,max=120"`
	Kickoff  string `json:"kickoff_at" validate:"required"`
	Referee  string `json:"referee" validate:"omitempty,max=120"`
	Target   string `json:"target_market" validate:"required"`
}

type ingestOddsRequest struct {
	Snapshots []ingestOddsSnapshotRecord `json:"snapshots" validate:"required,min=1,dive"`
}

type ingestOddsSnapshotRecord struct {
	MatchID     string  `json:"match_id" validate:"required,max=120"`
	Bookmaker   string  `json:"bookmaker" validate:"required,max=60"`
	CollectedAt string  `json:"collected_at"`
	HomeOdds    float64 `json:"home_odds" validate:"gte=0"`
	DrawOdds    float64 `json:"draw_odds" validate:"gte=0"`
	AwayOdds    float64 `json:"away_odds" validate:"gte=0"`
	TotalsLine  float64 `json:"totals_line" validate:"gte=0"`
	OverOdds    float64 `json:"over_odds" validate:"gte=0"`
	UnderOdds   float64 `json:"under_odds" validate:"gte=0"`
	BTTSYesOdds float64 `json:"btts_yes_odds" validate:"gte=0"`
	BTTSNoOdds  float64 `json:"btts_no_odds" validate:"gte=0"`
}

type ingestResultsRequest struct {
	Results []ingestMatchResultRecord `json:"results" validate:"required,min=1,dive"`
}

type ingestMatchResultRecord struct {
	MatchID     string `json:"match_id" validate:"required,max=120"`
	HomeTeam    string `json:"home_team" validate:"required,max=120"`
	AwayTeam    string `json:"away_team" validate:"required,max=120"`
	KickoffAt   string `json:"kickoff_at" validate:"required"`
	HomeScore   int    `json:"home_score" validate:"gte=0"`
	AwayScore   int    `json:"away_score" validate:"gte=0"`
	HTHomeScore int    `json:"ht_home_score" validate:"gte=0"`
	HTAwayScore int    `json:"ht_away_score" validate:"gte=0"`
	Finished    bool   `json:"finished"`
}

type ingestBatchDTO struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

type predictionDTO struct {
	MatchID           string             `json:"match_id"`
	Action            string             `json:"action"`
	Reason            string             `json:"reason,omitempty"`
	DiamondScore      float64            `json:"diamond_score"`
	RecommendedMarket string             `json:"recommended_market"`
	Selection         string             `json:"selection,omitempty"`
	WinProbability    float64            `json:"win_probability"`
	Probabilities     map[string]float64 `json:"probabilities,omitempty"`
	LayerBreakdown    []layerPointsDTO   `json:"layer_breakdown,omitempty"`
	Steam             *steamVerdictDTO   `json:"steam,omitempty"`
	Quote             *quoteDTO          `json:"quote,omitempty"`
	Pick              *pickDTO           `json:"pick,omitempty"`
	VariationID       string             `json:"variation_id,omitempty"`
}

type layerPointsDTO struct {
	Layer  string  `json:"layer"`
	Points float64 `json:"points"`
	Reason string  `json:"reason,omitempty"`
}

type steamVerdictDTO struct {
	Validated          bool    `json:"validated"`
	Action             string  `json:"action"`
	AdjustedConfidence float64 `json:"adjusted_confidence"`
	DeltaBp            float64 `json:"delta_bp"`
	Reason             string  `json:"reason,omitempty"`
}

type quoteDTO struct {
	MarketType  string  `json:"market_type"`
	Odds        float64 `json:"odds"`
	ModelProb   float64 `json:"model_prob"`
	ImpliedProb float64 `json:"implied_prob"`
	Edge        float64 `json:"edge"`
	FairOdds    float64 `json:"fair_odds"`
	EV          float64 `json:"ev"`
	Stake       float64 `json:"stake"`
	Placeable   bool    `json:"placeable"`
	Reason      string  `json:"reason,omitempty"`
}

type pickDTO struct {
	ID            string   `json:"id"`
	MatchID       string   `json:"match_id"`
	HomeTeam      string   `json:"home_team"`
	AwayTeam      string   `json:"away_team"`
	League        string   `json:"league,omitempty"`
	MarketType    string   `json:"market_type"`
	Selection     string   `json:"selection"`
	OddsTaken     float64  `json:"odds_taken"`
	ModelProb     float64  `json:"model_prob"`
	Edge          float64  `json:"edge"`
	DiamondScore  float64  `json:"diamond_score"`
	KellyStake    float64  `json:"kelly_stake"`
	VariationID   string   `json:"variation_id,omitempty"`
	CreatedAtUTC  string   `json:"created_at_utc"`
	KickoffUTC    string   `json:"kickoff_utc"`
	Resolved      bool     `json:"resolved"`
	IsWinner      bool     `json:"is_winner"`
	ClosingOdds   *float64 `json:"closing_odds,omitempty"`
	CLVPct        *float64 `json:"clv_pct,omitempty"`
	ProfitLoss    *float64 `json:"profit_loss,omitempty"`
	ResolvedAtUTC string   `json:"resolved_at_utc,omitempty"`
}

type performanceReportDTO struct {
	SinceUTC    string              `json:"since_utc"`
	TotalPicks  int                 `json:"total_picks"`
	TotalWins   int                 `json:"total_wins"`
	TotalProfit float64             `json:"total_profit"`
	TotalStaked float64             `json:"total_staked"`
	ROIPct      float64             `json:"roi_pct"`
	AvgCLVPct   float64             `json:"avg_clv_pct"`
	Markets     []performanceRowDTO `json:"markets"`
}

type performanceRowDTO struct {
	MarketType  string  `json:"market_type"`
	Picks       int     `json:"picks"`
	Wins        int     `json:"wins"`
	AvgCLVPct   float64 `json:"avg_clv_pct"`
	TotalProfit float64 `json:"total_profit"`
	TotalStaked float64 `json:"total_staked"`
}

type resolverStatsDTO struct {
	ClosingScanned int `json:"closing_scanned"`
	ClosingSet     int `json:"closing_set"`
	OutcomeScanned int `json:"outcome_scanned"`
	Settled        int `json:"settled"`
	LeftPending    int `json:"left_pending"`
	Escalated      int `json:"escalated"`
}

func predictionToDTO(ctx context.Context, v usecase.Prediction) predictionDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	dto := predictionDTO{
		MatchID:           v.MatchID,
		Action:            string(v.Action),
		Reason:            v.Reason,
		DiamondScore:      v.Scoring.Score,
		RecommendedMarket: string(v.Scoring.RecommendedMarket),
		Selection:         string(v.Scoring.Selection),
		WinProbability:    v.WinProbability,
		VariationID:       v.VariationID,
	}

	if len(v.Scoring.Probabilities) > 0 {
		dto.Probabilities = make(map[string]float64, len(v.Scoring.Probabilities))
		for mt, p := range v.Scoring.Probabilities {
			dto.Probabilities[string(mt)] = p
		}
	}
	for _, c := range v.Scoring.Contributions {
		dto.LayerBreakdown = append(dto.LayerBreakdown, layerPointsDTO{
			Layer:  c.Layer,
			Points: c.Points,
			Reason: c.Reason,
		})
	}
	if v.Steam.Validated {
		dto.Steam = &steamVerdictDTO{
			Validated:          v.Steam.Validated,
			Action:             string(v.Steam.Action),
			AdjustedConfidence: v.Steam.AdjustedConfidence,
			DeltaBp:            v.Steam.DeltaBp,
			Reason:             v.Steam.Reason,
		}
	}
	if v.Quote.MarketType != "" {
		dto.Quote = &quoteDTO{
			MarketType:  string(v.Quote.MarketType),
			Odds:        v.Quote.Odds,
			ModelProb:   v.Quote.ModelProb,
			ImpliedProb: v.Quote.ImpliedProb,
			Edge:        v.Quote.Edge,
			FairOdds:    v.Quote.FairOdds,
			EV:          v.Quote.EV,
			Stake:       v.Quote.Stake,
			Placeable:   v.Quote.Placeable,
			Reason:      v.Quote.Reason,
		}
	}
	if v.Pick != nil {
		p := pickToDTO(ctx, *v.Pick)
		dto.Pick = &p
	}

	return dto
}

func pickToDTO(ctx context.Context, p pick.Pick) pickDTO {
	ctx, span := startSpan(ctx, "httpapi.pickToDTO")
	defer span.End()

	return pickDTO{
		ID:            p.ID,
		MatchID:       p.MatchID,
		HomeTeam:      p.HomeTeam,
		AwayTeam:      p.AwayTeam,
		League:        p.League,
		MarketType:    string(p.MarketType),
		Selection:     p.Selection,
		OddsTaken:     p.OddsTaken,
		ModelProb:     p.ModelProb,
		Edge:          p.Edge,
		DiamondScore:  p.DiamondScore,
		KellyStake:    p.KellyStake,
		VariationID:   p.VariationID,
		CreatedAtUTC:  p.CreatedAt.UTC().Format(time.RFC3339),
		KickoffUTC:    p.Kickoff.UTC().Format(time.RFC3339),
		Resolved:      p.Resolved,
		IsWinner:      p.IsWinner,
		ClosingOdds:   p.ClosingOdds,
		CLVPct:        p.CLVPct,
		ProfitLoss:    p.ProfitLoss,
		ResolvedAtUTC: formatOptionalTime(p.ResolvedAt),
	}
}

func performanceToDTO(ctx context.Context, report usecase.PerformanceReport) performanceReportDTO {
	ctx, span := startSpan(ctx, "httpapi.performanceToDTO")
	defer span.End()

	rows := make([]performanceRowDTO, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, performanceRowDTO{
			MarketType:  r.MarketType,
			Picks:       r.Picks,
			Wins:        r.Wins,
			AvgCLVPct:   r.AvgCLVPct,
			TotalProfit: r.TotalProfit,
			TotalStaked: r.TotalStaked,
		})
	}

	return performanceReportDTO{
		SinceUTC:    report.Since.UTC().Format(time.RFC3339),
		TotalPicks:  report.TotalPicks,
		TotalWins:   report.TotalWins,
		TotalProfit: report.TotalProfit,
		TotalStaked: report.TotalStaked,
		ROIPct:      report.ROIPct,
		AvgCLVPct:   report.AvgCLVPct,
		Markets:     rows,
	}
}

func resolverStatsToDTO(stats usecase.ResolverStats) resolverStatsDTO {
	return resolverStatsDTO{
		ClosingScanned: stats.ClosingScanned,
		ClosingSet:     stats.ClosingSet,
		OutcomeScanned: stats.OutcomeScanned,
		Settled:        stats.Settled,
		LeftPending:    stats.LeftPending,
		Escalated:      stats.Escalated,
	}
}

func formatOptionalTime(v *time.Time) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
