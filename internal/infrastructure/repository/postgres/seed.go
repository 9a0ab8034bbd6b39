package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	"github.com/riskibarqy/pitch-booking/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/pitch-booking/internal/platform/querybuilder"
)

// BootstrapSeed loads the demo lineups into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM lineups WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count lineups for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range memory.SeedLineups() {
		query, args, err := qb.InsertModel("lineups", lineupInsertModelFrom(item), "ON CONFLICT (public_id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build seed lineup %s query: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed lineup %s: %w", item.ID, err)
		}

		for _, side := range []lineup.Side{lineup.TeamA, lineup.TeamB} {
			for _, p := range item.Roster(side) {
				query, args, err := qb.InsertModel("lineup_players", lineupPlayerInsertModelFrom(item.ID, p), "ON CONFLICT DO NOTHING")
				if err != nil {
					return fmt.Errorf("build seed lineup player %s query: %w", p.ID, err)
				}
				if _, err := tx.ExecContext(ctx, query, args...); err != nil {
					return fmt.Errorf("seed lineup player %s: %w", p.ID, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func lineupInsertModelFrom(item lineup.Lineup) lineupInsertModel {
	return lineupInsertModel{
		PublicID:     item.ID,
		ScheduleName: item.ScheduleName,
		Venue:        item.Venue,
		MatchDate:    item.Date,
		MatchTime:    item.Time,
		Status:       string(item.Status),
	}
}

func lineupPlayerInsertModelFrom(lineupID string, p lineup.Player) lineupPlayerInsertModel {
	return lineupPlayerInsertModel{
		LineupID:  lineupID,
		PlayerID:  p.ID,
		Name:      p.Name,
		Phone:     nullString(p.Phone),
		Position:  string(p.Position),
		Team:      string(p.Team),
		SortOrder: p.Order,
		Notes:     nullString(p.Notes),
	}
}
