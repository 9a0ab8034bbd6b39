package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	qb "github.com/riskibarqy/pitch-booking/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) FetchLineups(ctx context.Context) ([]lineup.Lineup, error) {
	query, args, err := lineupBaseSelectBuilder().
		Where(qb.IsNull("deleted_at")).
		OrderBy("match_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineups query: %w", err)
	}

	var rows []lineupTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineups: %w", err)
	}
	if len(rows) == 0 {
		return []lineup.Lineup{}, nil
	}

	lineupIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		lineupIDs = append(lineupIDs, row.PublicID)
	}

	players, err := listLineupPlayers(ctx, r.db, lineupIDs)
	if err != nil {
		return nil, err
	}

	return lineupsFromRows(rows, players), nil
}

// UpdatePlayerTeam locks the lineup holding the player, applies the team
// change with the goalkeeper swap rule and rewrites team and sort order of
// every affected player in one transaction.
func (r *LineupRepository) UpdatePlayerTeam(ctx context.Context, playerID string, team lineup.Side) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update player team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("lineup_public_id").
		From("lineup_players").
		Where(qb.Eq("player_public_id", playerID), qb.IsNull("deleted_at")).
		Limit(1).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock lineup player query: %w", err)
	}

	var lineupID string
	if err := sqlx.GetContext(ctx, tx, &lineupID, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", lineup.ErrPlayerNotFound, playerID)
		}
		return fmt.Errorf("lock lineup player=%s: %w", playerID, err)
	}

	current, err := loadLineup(ctx, tx, lineupID)
	if err != nil {
		return err
	}

	res, err := lineup.AssignTeam(current, playerID, team)
	if err != nil {
		return fmt.Errorf("assign team lineup=%s: %w", lineupID, err)
	}
	if !res.Changed {
		return nil
	}

	for _, side := range []lineup.Side{lineup.TeamA, lineup.TeamB} {
		for _, p := range res.Lineup.Roster(side) {
			before, _ := current.Player(p.ID)
			if before.Team == p.Team && before.Order == p.Order {
				continue
			}

			query, args, err := qb.Update("lineup_players").
				Set("team", string(p.Team)).
				Set("sort_order", p.Order).
				SetExpr("updated_at", "NOW()").
				Where(
					qb.Eq("lineup_public_id", lineupID),
					qb.Eq("player_public_id", p.ID),
					qb.IsNull("deleted_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build update lineup player query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("update lineup player=%s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update player team tx: %w", err)
	}
	return nil
}

// loadLineup locks the lineup row; call it inside a transaction.
func loadLineup(ctx context.Context, q sqlx.QueryerContext, lineupID string) (lineup.Lineup, error) {
	query, args, err := lineupBaseSelectBuilder().
		Where(qb.Eq("public_id", lineupID), qb.IsNull("deleted_at")).
		ForUpdate().
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("build get lineup query: %w", err)
	}

	var row lineupTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, fmt.Errorf("lineup %s not found", lineupID)
		}
		return lineup.Lineup{}, fmt.Errorf("get lineup=%s: %w", lineupID, err)
	}

	players, err := listLineupPlayers(ctx, q, []string{lineupID})
	if err != nil {
		return lineup.Lineup{}, err
	}

	items := lineupsFromRows([]lineupTableModel{row}, players)
	return items[0], nil
}

func listLineupPlayers(ctx context.Context, q sqlx.QueryerContext, lineupIDs []string) ([]lineupPlayerTableModel, error) {
	query, args, err := qb.Select("*").
		From("lineup_players").
		Where(qb.AnyOf("lineup_public_id", lineupIDs), qb.IsNull("deleted_at")).
		OrderBy("lineup_public_id", "team", "sort_order", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup players query: %w", err)
	}

	var rows []lineupPlayerTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineup players: %w", err)
	}
	return rows, nil
}

// lineupsFromRows keeps the lineup row order. Players are expected sorted by
// sort_order within each team; orders are renumbered so gaps in storage do
// not leak into the domain.
func lineupsFromRows(rows []lineupTableModel, players []lineupPlayerTableModel) []lineup.Lineup {
	type rosters struct {
		a []lineup.Player
		b []lineup.Player
	}
	byLineup := make(map[string]*rosters, len(rows))
	for _, row := range rows {
		byLineup[row.PublicID] = &rosters{}
	}

	for _, p := range players {
		target, ok := byLineup[p.LineupID]
		if !ok {
			continue
		}
		item := lineup.Player{
			ID:       p.PlayerID,
			Name:     p.Name,
			Phone:    nullStringValue(p.Phone),
			Position: lineup.Position(strings.ToUpper(strings.TrimSpace(p.Position))),
			Notes:    nullStringValue(p.Notes),
		}
		switch lineup.Side(strings.ToUpper(strings.TrimSpace(p.Team))) {
		case lineup.TeamB:
			target.b = append(target.b, item)
		default:
			target.a = append(target.a, item)
		}
	}

	out := make([]lineup.Lineup, 0, len(rows))
	for _, row := range rows {
		meta := lineup.Meta{
			ID:           row.PublicID,
			ScheduleName: row.ScheduleName,
			Venue:        row.Venue,
			Date:         row.MatchDate.UTC(),
			Time:         row.MatchTime,
			Status:       lineup.Status(strings.ToUpper(strings.TrimSpace(row.Status))),
		}
		r := byLineup[row.PublicID]
		out = append(out, lineup.Normalize(meta, r.a, r.b))
	}
	return out
}

func lineupBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("lineups")
}
