package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/pick"
)

// PerformanceReport aggregates settled picks per market plus totals.
type PerformanceReport struct {
	Since       time.Time
	Rows        []pick.PerformanceRow
	TotalPicks  int
	TotalWins   int
	TotalProfit float64
	TotalStaked float64
	ROIPct      float64
	AvgCLVPct   float64
}

// PerformanceService builds the CLV and profit report the operator reads.
type PerformanceService struct {
	picks pick.Repository
	now   func() time.Time
}

func NewPerformanceService(picks pick.Repository) *PerformanceService {
	return &PerformanceService{picks: picks, now: time.Now}
}

// Report aggregates settled picks created at or after since. A zero since
// defaults to the trailing ninety days.
func (s *PerformanceService) Report(ctx context.Context, since time.Time) (PerformanceReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PerformanceService.Report")
	defer span.End()

	if since.IsZero() {
		since = s.now().UTC().AddDate(0, 0, -90)
	}

	rows, err := s.picks.Performance(ctx, since)
	if err != nil {
		return PerformanceReport{}, fmt.Errorf("aggregate pick performance: %w", err)
	}

	report := PerformanceReport{Since: since, Rows: rows}
	clvWeight := 0.0
	for _, r := range rows {
		report.TotalPicks += r.Picks
		report.TotalWins += r.Wins
		report.TotalProfit += r.TotalProfit
		report.TotalStaked += r.TotalStaked
		report.AvgCLVPct += r.AvgCLVPct * float64(r.Picks)
		clvWeight += float64(r.Picks)
	}
	if clvWeight > 0 {
		report.AvgCLVPct /= clvWeight
	}
	if report.TotalStaked > 0 {
		report.ROIPct = report.TotalProfit / report.TotalStaked * 100
	}
	return report, nil
}
