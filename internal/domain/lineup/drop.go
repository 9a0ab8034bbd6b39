package lineup

import "strings"

const (
	containerPrefix = "team-"
	containerSuffix = "-container"
)

// ContainerID is the drop-target id of a team list, e.g. "team-A-container".
func ContainerID(side Side) string {
	return containerPrefix + string(side) + containerSuffix
}

// ParseContainerID returns the team addressed by a container drop-target id.
func ParseContainerID(id string) (Side, bool) {
	id = strings.TrimSpace(id)
	if !strings.HasPrefix(id, containerPrefix) || !strings.HasSuffix(id, containerSuffix) {
		return "", false
	}
	side := Side(strings.TrimSuffix(strings.TrimPrefix(id, containerPrefix), containerSuffix))
	if !side.Valid() {
		return "", false
	}
	return side, true
}

// ResolveDrop turns the ids reported at the end of a drag gesture into a
// command. overID is either a player id or a container id; an empty overID, a
// drop on the dragged player itself or an unknown id resolve to nothing.
func ResolveDrop(l Lineup, activeID, overID string) (Command, bool) {
	activeID = strings.TrimSpace(activeID)
	overID = strings.TrimSpace(overID)
	if activeID == "" || overID == "" || activeID == overID {
		return nil, false
	}

	source, _, ok := l.Locate(activeID)
	if !ok {
		return nil, false
	}

	if side, isContainer := ParseContainerID(overID); isContainer {
		if side == source {
			return ReorderCommand{PlayerID: activeID, TargetIndex: l.TeamSize(side) - 1}, true
		}
		return TransferCommand{PlayerID: activeID, TargetTeam: side, TargetIndex: AppendIndex}, true
	}

	side, idx, ok := l.Locate(overID)
	if !ok {
		return nil, false
	}
	if side == source {
		return ReorderCommand{PlayerID: activeID, TargetIndex: idx}, true
	}
	return TransferCommand{PlayerID: activeID, TargetTeam: side, TargetIndex: idx}, true
}
