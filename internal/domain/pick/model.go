package pick

import (
	"fmt"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/market"
)

// Pick is the one durable artifact this service owns. It is mutated exactly
// twice after creation: once when the closing price becomes available, once
// when the match result settles it.
type Pick struct {
	ID           string
	MatchID      string
	HomeTeam     string
	AwayTeam     string
	League       string
	MarketType   market.Type
	Selection    string
	OddsTaken    float64
	ModelProb    float64
	Edge         float64
	DiamondScore float64
	KellyStake   float64
	VariationID  string
	CreatedAt    time.Time
	Kickoff      time.Time

	Resolved    bool
	IsWinner    bool
	ClosingOdds *float64
	CLVPct      *float64
	ProfitLoss  *float64
	ResolvedAt  *time.Time
}

func (p Pick) Validate() error {
	if p.MatchID == "" {
		return fmt.Errorf("pick match id is required")
	}
	if p.OddsTaken <= 1.0 {
		return fmt.Errorf("pick odds must exceed 1.0, got %v", p.OddsTaken)
	}
	if !p.CreatedAt.Before(p.Kickoff) {
		return fmt.Errorf("pick must be created before kickoff")
	}
	if p.ModelProb <= 0 || p.ModelProb > 1 {
		return fmt.Errorf("pick model probability out of range: %v", p.ModelProb)
	}
	return nil
}

// CLV computes closing line value in percent. Positive means the pick beat
// the close.
func CLV(oddsTaken, closingOdds float64) float64 {
	if closingOdds <= 0 {
		return 0
	}
	return (oddsTaken - closingOdds) / closingOdds * 100
}

// SettledProfit returns the profit or loss of a settled pick for a stake.
func SettledProfit(oddsTaken, stake float64, winner bool) float64 {
	if winner {
		return (oddsTaken - 1) * stake
	}
	return -stake
}
