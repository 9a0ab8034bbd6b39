package cache

import (
	"context"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	basecache "github.com/riskibarqy/pitch-booking/internal/platform/cache"
)

const (
	lineupKeyPrefix = "lineup:"
	lineupListKey   = lineupKeyPrefix + "list"
)

// LineupRepository caches the lineup listing of the wrapped source. Every
// team update evicts it, whether or not the update succeeded.
type LineupRepository struct {
	next  lineup.Repository
	cache *basecache.Store[[]lineup.Lineup]
}

func NewLineupRepository(next lineup.Repository, cache *basecache.Store[[]lineup.Lineup]) *LineupRepository {
	return &LineupRepository{next: next, cache: cache}
}

func (r *LineupRepository) FetchLineups(ctx context.Context) ([]lineup.Lineup, error) {
	items, err := r.cache.GetOrLoad(ctx, lineupListKey, func(ctx context.Context) ([]lineup.Lineup, error) {
		items, err := r.next.FetchLineups(ctx)
		if err != nil {
			return nil, err
		}
		return append([]lineup.Lineup(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]lineup.Lineup(nil), items...), nil
}

func (r *LineupRepository) UpdatePlayerTeam(ctx context.Context, playerID string, team lineup.Side) error {
	defer r.cache.DeletePrefix(ctx, lineupKeyPrefix)
	return r.next.UpdatePlayerTeam(ctx, playerID, team)
}
