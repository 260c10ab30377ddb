package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	items map[string]pick.Pick
	order []string
	vars  *VariationRepository
}

func NewPickRepository() *PickRepository {
	return &PickRepository{items: make(map[string]pick.Pick)}
}

// BindVariations routes settle-time posterior updates to the variation
// store, standing in for the single transaction the SQL repository uses.
func (r *PickRepository) BindVariations(vars *VariationRepository) {
	r.vars = vars
}

func (r *PickRepository) Insert(_ context.Context, p pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *PickRepository) GetByID(_ context.Context, id string) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	return p, ok, nil
}

func (r *PickRepository) List(_ context.Context, f pick.Filter) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(r.order))
	for _, id := range r.order {
		p := r.items[id]
		if f.MarketType != "" && string(p.MarketType) != f.MarketType {
			continue
		}
		if f.Resolved != nil && p.Resolved != *f.Resolved {
			continue
		}
		if !f.CreatedAfter.IsZero() && p.CreatedAt.Before(f.CreatedAfter) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *PickRepository) ListPendingClosing(_ context.Context, now time.Time, limit int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, id := range r.order {
		p := r.items[id]
		if p.ClosingOdds != nil || p.Kickoff.After(now) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *PickRepository) SetClosing(_ context.Context, id string, closingOdds, clvPct float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok || p.ClosingOdds != nil {
		return false, nil
	}
	p.ClosingOdds = &closingOdds
	p.CLVPct = &clvPct
	r.items[id] = p
	return true, nil
}

func (r *PickRepository) ListPendingOutcome(_ context.Context, cutoff time.Time, limit int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, id := range r.order {
		p := r.items[id]
		if p.Resolved || p.Kickoff.After(cutoff) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *PickRepository) Settle(ctx context.Context, id string, winner bool, profitLoss float64, at time.Time, variationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok || p.Resolved {
		return false, nil
	}

	if variationID != "" && r.vars != nil {
		if err := r.vars.RecordOutcome(ctx, variationID, winner); err != nil {
			return false, err
		}
	}

	p.Resolved = true
	p.IsWinner = winner
	p.ProfitLoss = &profitLoss
	p.ResolvedAt = &at
	r.items[id] = p
	return true, nil
}

func (r *PickRepository) Performance(_ context.Context, since time.Time) ([]pick.PerformanceRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byMarket := make(map[string]*pick.PerformanceRow)
	clvSums := make(map[string]float64)
	clvCounts := make(map[string]int)
	for _, p := range r.items {
		if !p.Resolved || p.CreatedAt.Before(since) {
			continue
		}
		mt := string(p.MarketType)
		row, ok := byMarket[mt]
		if !ok {
			row = &pick.PerformanceRow{MarketType: mt}
			byMarket[mt] = row
		}
		row.Picks++
		if p.IsWinner {
			row.Wins++
		}
		if p.ProfitLoss != nil {
			row.TotalProfit += *p.ProfitLoss
		}
		row.TotalStaked += p.KellyStake
		if p.CLVPct != nil {
			clvSums[mt] += *p.CLVPct
			clvCounts[mt]++
		}
	}

	out := make([]pick.PerformanceRow, 0, len(byMarket))
	for mt, row := range byMarket {
		if clvCounts[mt] > 0 {
			row.AvgCLVPct = clvSums[mt] / float64(clvCounts[mt])
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MarketType < out[j].MarketType })
	return out, nil
}
