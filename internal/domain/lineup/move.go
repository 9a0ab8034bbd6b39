package lineup

import "fmt"

// AppendIndex asks Transfer to place the player at the end of the target team.
const AppendIndex = -1

// MoveKind tells which operation produced a MoveResult.
type MoveKind string

const (
	MoveReorder  MoveKind = "reorder"
	MoveTransfer MoveKind = "transfer"
)

// Command is a requested lineup operation: ReorderCommand or TransferCommand.
type Command interface {
	Kind() MoveKind
	Player() string
}

type ReorderCommand struct {
	PlayerID    string
	TargetIndex int
}

func (ReorderCommand) Kind() MoveKind   { return MoveReorder }
func (c ReorderCommand) Player() string { return c.PlayerID }

type TransferCommand struct {
	PlayerID    string
	TargetTeam  Side
	TargetIndex int
}

func (TransferCommand) Kind() MoveKind   { return MoveTransfer }
func (c TransferCommand) Player() string { return c.PlayerID }

// MoveResult is the outcome of one engine operation. When Changed is false the
// operation was rejected or had no effect, Lineup is the input value and
// Reason says why.
type MoveResult struct {
	Lineup            Lineup
	Changed           bool
	Kind              MoveKind
	PlayerID          string
	TargetTeam        Side
	Swapped           bool
	DisplacedPlayerID string
	Label             string
	Reason            string
}

// Execute dispatches a command to Reorder or Transfer.
func Execute(l Lineup, cmd Command) MoveResult {
	switch c := cmd.(type) {
	case ReorderCommand:
		return Reorder(l, c.PlayerID, c.TargetIndex)
	case *ReorderCommand:
		if c == nil {
			return rejected(l, "", "", "command is nil")
		}
		return Reorder(l, c.PlayerID, c.TargetIndex)
	case TransferCommand:
		return Transfer(l, c.PlayerID, c.TargetTeam, c.TargetIndex)
	case *TransferCommand:
		if c == nil {
			return rejected(l, "", "", "command is nil")
		}
		return Transfer(l, c.PlayerID, c.TargetTeam, c.TargetIndex)
	default:
		return rejected(l, "", "", fmt.Sprintf("unsupported command %T", cmd))
	}
}

// Reorder moves a player to targetIndex within its own team. The index is
// clamped to the team bounds and orders are renumbered left to right.
func Reorder(l Lineup, playerID string, targetIndex int) MoveResult {
	side, from, ok := l.Locate(playerID)
	if !ok {
		return rejected(l, MoveReorder, playerID, "player not found in lineup")
	}

	roster := l.roster(side)
	to := clamp(targetIndex, 0, len(roster)-1)
	if to == from {
		return MoveResult{
			Lineup:     l,
			Kind:       MoveReorder,
			PlayerID:   playerID,
			TargetTeam: side,
			Reason:     "player already at target position",
		}
	}

	moved := roster[from]
	next := insertAt(removeAt(roster, from), to, moved)
	next = renumber(next, side)

	var out Lineup
	if side == TeamA {
		out = l.withRosters(next, l.teamB)
	} else {
		out = l.withRosters(l.teamA, next)
	}

	return MoveResult{
		Lineup:     out,
		Changed:    true,
		Kind:       MoveReorder,
		PlayerID:   playerID,
		TargetTeam: side,
		Label:      fmt.Sprintf("Moved %s to position %d in Team %s", displayName(moved), to+1, side),
	}
}

// Transfer moves a player into targetTeam at targetIndex (or AppendIndex).
//
// A goalkeeper moving into a team that already has one triggers the swap
// rule: the mover takes the target keeper's place and the displaced keeper is
// appended to the mover's former team, in a single state transition.
func Transfer(l Lineup, playerID string, targetTeam Side, targetIndex int) MoveResult {
	if !targetTeam.Valid() {
		return rejected(l, MoveTransfer, playerID, fmt.Sprintf("invalid target team %q", targetTeam))
	}

	source, from, ok := l.Locate(playerID)
	if !ok {
		return rejected(l, MoveTransfer, playerID, "player not found in lineup")
	}
	if source == targetTeam {
		return rejected(l, MoveTransfer, playerID, "player already belongs to target team")
	}

	target := l.roster(targetTeam)
	if targetIndex == AppendIndex {
		targetIndex = len(target)
	}
	if targetIndex < 0 || targetIndex > len(target) {
		return rejected(l, MoveTransfer, playerID, fmt.Sprintf("target index %d out of range [0,%d]", targetIndex, len(target)))
	}

	mover := l.roster(source)[from]
	sourceNext := removeAt(l.roster(source), from)

	keeper, keeperIdx, hasKeeper := l.Goalkeeper(targetTeam)
	swap := mover.IsGoalkeeper() && hasKeeper

	targetNext := target
	if swap {
		targetNext = removeAt(target, keeperIdx)
		if keeperIdx < targetIndex {
			targetIndex--
		}
		sourceNext = append(sourceNext, keeper)
	}
	targetNext = insertAt(targetNext, targetIndex, mover)

	sourceNext = renumber(sourceNext, source)
	targetNext = renumber(targetNext, targetTeam)

	var out Lineup
	if targetTeam == TeamA {
		out = l.withRosters(targetNext, sourceNext)
	} else {
		out = l.withRosters(sourceNext, targetNext)
	}

	result := MoveResult{
		Lineup:     out,
		Changed:    true,
		Kind:       MoveTransfer,
		PlayerID:   playerID,
		TargetTeam: targetTeam,
		Label:      fmt.Sprintf("Moved %s to Team %s", displayName(mover), targetTeam),
	}
	if swap {
		result.Swapped = true
		result.DisplacedPlayerID = keeper.ID
		result.Label = fmt.Sprintf("Swapped goalkeepers %s and %s", displayName(mover), displayName(keeper))
	}
	return result
}

func rejected(l Lineup, kind MoveKind, playerID, reason string) MoveResult {
	return MoveResult{
		Lineup:   l,
		Kind:     kind,
		PlayerID: playerID,
		Reason:   reason,
	}
}

// removeAt and insertAt always allocate so the input roster stays untouched.
func removeAt(players []Player, idx int) []Player {
	out := make([]Player, 0, len(players))
	out = append(out, players[:idx]...)
	return append(out, players[idx+1:]...)
}

func insertAt(players []Player, idx int, p Player) []Player {
	idx = clamp(idx, 0, len(players))
	out := make([]Player, 0, len(players)+1)
	out = append(out, players[:idx]...)
	out = append(out, p)
	return append(out, players[idx:]...)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func displayName(p Player) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
