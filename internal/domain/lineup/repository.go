package lineup

import (
	"context"
	"errors"
	"fmt"
)

var ErrPlayerNotFound = errors.New("player not found")

// Fetcher loads every editable lineup with its default team assignment.
type Fetcher interface {
	FetchLineups(ctx context.Context) ([]Lineup, error)
}

// PlayerTeamUpdater persists a single player's team membership.
type PlayerTeamUpdater interface {
	UpdatePlayerTeam(ctx context.Context, playerID string, team Side) error
}

// Repository is a lineup source that also accepts team updates.
type Repository interface {
	Fetcher
	PlayerTeamUpdater
}

// AssignTeam is the storage side of a team update: the player is appended to
// team, with the goalkeeper swap applied when needed. Changed is false when
// the player already plays for team.
func AssignTeam(l Lineup, playerID string, team Side) (MoveResult, error) {
	if !team.Valid() {
		return MoveResult{}, fmt.Errorf("invalid team %q", team)
	}
	current, _, ok := l.Locate(playerID)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if current == team {
		return MoveResult{Lineup: l, Kind: MoveTransfer, PlayerID: playerID, TargetTeam: team}, nil
	}

	res := Transfer(l, playerID, team, AppendIndex)
	if !res.Changed {
		return MoveResult{}, fmt.Errorf("assign player %s to team %s: %s", playerID, team, res.Reason)
	}
	return res, nil
}
