package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/odds"
)

type OddsRepository struct {
	mu    sync.RWMutex
	items map[string][]odds.Snapshot
}

func oddsKey(matchID, bookmaker string) string {
	return matchID + "|" + bookmaker
}

func NewOddsRepository(snaps []odds.Snapshot) *OddsRepository {
	r := &OddsRepository{items: make(map[string][]odds.Snapshot)}
	for _, s := range snaps {
		key := oddsKey(s.MatchID, s.Bookmaker)
		r.items[key] = append(r.items[key], s)
	}
	for key := range r.items {
		sortSnapshots(r.items[key])
	}
	return r
}

func sortSnapshots(list []odds.Snapshot) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CollectedAt.Before(list[j].CollectedAt)
	})
}

func (r *OddsRepository) Append(_ context.Context, snap odds.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := oddsKey(snap.MatchID, snap.Bookmaker)
	r.items[key] = append(r.items[key], snap)
	sortSnapshots(r.items[key])
	return nil
}

func (r *OddsRepository) Latest(_ context.Context, matchID, bookmaker string) (odds.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.items[oddsKey(matchID, bookmaker)]
	if len(list) == 0 {
		return odds.Snapshot{}, false, nil
	}
	return list[len(list)-1], true, nil
}

func (r *OddsRepository) Earliest(_ context.Context, matchID, bookmaker string) (odds.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.items[oddsKey(matchID, bookmaker)]
	if len(list) == 0 {
		return odds.Snapshot{}, false, nil
	}
	return list[0], true, nil
}

func (r *OddsRepository) LatestBefore(_ context.Context, matchID, bookmaker string, cutoff time.Time) (odds.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.items[oddsKey(matchID, bookmaker)]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].CollectedAt.Before(cutoff) {
			return list[i], true, nil
		}
	}
	return odds.Snapshot{}, false, nil
}
