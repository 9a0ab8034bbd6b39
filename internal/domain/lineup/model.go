package lineup

import (
	"fmt"
	"time"
)

// Position is the structural role a player fills in a match lineup.
type Position string

const (
	PositionGoalkeeper  Position = "GOALKEEPER"
	PositionFieldPlayer Position = "FIELD_PLAYER"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper:  {},
	PositionFieldPlayer: {},
}

// Side identifies one of the two match teams.
type Side string

const (
	TeamA Side = "A"
	TeamB Side = "B"
)

func (s Side) Valid() bool {
	return s == TeamA || s == TeamB
}

// Opposite returns the other team. Invalid sides map to themselves.
func (s Side) Opposite() Side {
	switch s {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return s
	}
}

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusActive    Status = "ACTIVE"
)

// Player is a confirmed participant assigned to one team of a lineup.
type Player struct {
	ID       string
	Name     string
	Phone    string
	Position Position
	Team     Side
	Order    int
	Notes    string
}

func (p Player) IsGoalkeeper() bool {
	return p.Position == PositionGoalkeeper
}

// Meta is the read-only match metadata of a lineup.
type Meta struct {
	ID           string
	ScheduleName string
	Venue        string
	Date         time.Time
	Time         string
	Status       Status
}

// Lineup is the two-team roster of one scheduled match.
//
// Lineup values are immutable: rosters are never modified in place and the
// accessors hand out copies, so a Lineup can be shared freely (for example as
// an undo snapshot) without cloning.
type Lineup struct {
	Meta
	teamA []Player
	teamB []Player
}

// New builds a lineup from the given rosters. The slices are copied; Team and
// Order are taken as given, use Normalize to re-stamp them.
func New(meta Meta, teamA, teamB []Player) Lineup {
	return Lineup{
		Meta:  meta,
		teamA: append([]Player(nil), teamA...),
		teamB: append([]Player(nil), teamB...),
	}
}

// Normalize stamps Team and a contiguous Order on every player, keeping the
// incoming slice order.
func Normalize(meta Meta, teamA, teamB []Player) Lineup {
	return Lineup{
		Meta:  meta,
		teamA: renumber(teamA, TeamA),
		teamB: renumber(teamB, TeamB),
	}
}

func (l Lineup) TeamA() []Player {
	return append([]Player(nil), l.teamA...)
}

func (l Lineup) TeamB() []Player {
	return append([]Player(nil), l.teamB...)
}

func (l Lineup) Roster(side Side) []Player {
	switch side {
	case TeamA:
		return l.TeamA()
	case TeamB:
		return l.TeamB()
	default:
		return nil
	}
}

func (l Lineup) TeamSize(side Side) int {
	return len(l.roster(side))
}

func (l Lineup) TotalPlayers() int {
	return len(l.teamA) + len(l.teamB)
}

// Locate finds the team and zero-based index holding playerID.
func (l Lineup) Locate(playerID string) (Side, int, bool) {
	for i, p := range l.teamA {
		if p.ID == playerID {
			return TeamA, i, true
		}
	}
	for i, p := range l.teamB {
		if p.ID == playerID {
			return TeamB, i, true
		}
	}
	return "", -1, false
}

func (l Lineup) Player(playerID string) (Player, bool) {
	side, idx, ok := l.Locate(playerID)
	if !ok {
		return Player{}, false
	}
	return l.roster(side)[idx], true
}

// Goalkeeper returns the goalkeeper of a team, if any.
func (l Lineup) Goalkeeper(side Side) (Player, int, bool) {
	for i, p := range l.roster(side) {
		if p.IsGoalkeeper() {
			return p, i, true
		}
	}
	return Player{}, -1, false
}

// Equal reports whether two lineups hold the same metadata and rosters.
func (l Lineup) Equal(other Lineup) bool {
	a, b := l.Meta, other.Meta
	if !a.Date.Equal(b.Date) {
		return false
	}
	a.Date, b.Date = time.Time{}, time.Time{}
	if a != b {
		return false
	}
	return playersEqual(l.teamA, other.teamA) && playersEqual(l.teamB, other.teamB)
}

func (l Lineup) roster(side Side) []Player {
	switch side {
	case TeamA:
		return l.teamA
	case TeamB:
		return l.teamB
	default:
		return nil
	}
}

func (l Lineup) withRosters(teamA, teamB []Player) Lineup {
	l.teamA = teamA
	l.teamB = teamB
	return l
}

// CheckInvariants reports the first structural rule a lineup breaks.
func CheckInvariants(l Lineup) error {
	seen := make(map[string]Side, l.TotalPlayers())
	for _, side := range []Side{TeamA, TeamB} {
		goalkeepers := 0
		for i, p := range l.roster(side) {
			if p.ID == "" {
				return fmt.Errorf("team %s position %d: player id is empty", side, i+1)
			}
			if _, ok := AllPositions[p.Position]; !ok {
				return fmt.Errorf("player %s: invalid position %q", p.ID, p.Position)
			}
			if other, dup := seen[p.ID]; dup {
				return fmt.Errorf("player %s appears in team %s and team %s", p.ID, other, side)
			}
			seen[p.ID] = side
			if p.Team != side {
				return fmt.Errorf("player %s is stored in team %s but marked team %s", p.ID, side, p.Team)
			}
			if p.Order != i+1 {
				return fmt.Errorf("player %s in team %s has order %d, want %d", p.ID, side, p.Order, i+1)
			}
			if p.IsGoalkeeper() {
				goalkeepers++
			}
		}
		if goalkeepers > 1 {
			return fmt.Errorf("team %s has %d goalkeepers", side, goalkeepers)
		}
	}
	return nil
}

func renumber(players []Player, side Side) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		p.Team = side
		p.Order = i + 1
		out[i] = p
	}
	return out
}

func playersEqual(a, b []Player) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
