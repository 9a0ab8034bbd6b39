package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
)

type LineupRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]lineup.Lineup
}

func NewLineupRepository(seed []lineup.Lineup) *LineupRepository {
	r := &LineupRepository{items: make(map[string]lineup.Lineup, len(seed))}
	for _, item := range seed {
		if _, exists := r.items[item.ID]; !exists {
			r.order = append(r.order, item.ID)
		}
		r.items[item.ID] = item
	}
	return r
}

func (r *LineupRepository) FetchLineups(_ context.Context) ([]lineup.Lineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Lineup, 0, len(r.order))
	for _, lineupID := range r.order {
		out = append(out, r.items[lineupID])
	}
	return out, nil
}

// UpdatePlayerTeam moves the player to the end of team inside whichever
// lineup holds it.
func (r *LineupRepository) UpdatePlayerTeam(_ context.Context, playerID string, team lineup.Side) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, lineupID := range r.order {
		item := r.items[lineupID]
		if _, _, ok := item.Locate(playerID); !ok {
			continue
		}
		res, err := lineup.AssignTeam(item, playerID, team)
		if err != nil {
			return fmt.Errorf("update player team lineup=%s: %w", lineupID, err)
		}
		r.items[lineupID] = res.Lineup
		return nil
	}

	return fmt.Errorf("%w: %s", lineup.ErrPlayerNotFound, playerID)
}
