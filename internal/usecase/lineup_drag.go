package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
)

// DragState is the in-progress drag gesture of a session. The zero value means
// no drag is active.
type DragState struct {
	ActivePlayerID string
	OverID         string
	StartedAt      time.Time
}

func (d DragState) Active() bool {
	return d.ActivePlayerID != ""
}

func (s *LineupEditorService) DragStart(ctx context.Context, lineupID, playerID string) (DragState, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return DragState{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}

	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return DragState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, _, ok := sess.store.Current().Locate(playerID); !ok {
		return DragState{}, fmt.Errorf("%w: player=%s lineup=%s", ErrNotFound, playerID, lineupID)
	}
	sess.drag = DragState{ActivePlayerID: playerID, StartedAt: s.now().UTC()}
	return sess.drag, nil
}

// DragOver records the drop target currently under the pointer. It never
// changes the lineup.
func (s *LineupEditorService) DragOver(ctx context.Context, lineupID, overID string) (DragState, error) {
	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return DragState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.drag.Active() {
		return DragState{}, fmt.Errorf("%w: no drag in progress", ErrInvalidInput)
	}
	sess.drag.OverID = strings.TrimSpace(overID)
	return sess.drag, nil
}

// DragEnd resolves the drop into a reorder or transfer and executes it. Empty
// ids fall back to the values recorded by DragStart and DragOver. The drag
// state is cleared whatever the outcome.
func (s *LineupEditorService) DragEnd(ctx context.Context, lineupID, activeID, overID string) (MoveOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupEditorService.DragEnd")
	defer span.End()

	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return MoveOutcome{}, err
	}
	if !s.enter() {
		return MoveOutcome{}, ErrEditorClosed
	}
	defer s.leave()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	drag := sess.drag
	sess.drag = DragState{}

	activeID = strings.TrimSpace(activeID)
	if activeID == "" {
		activeID = drag.ActivePlayerID
	}
	overID = strings.TrimSpace(overID)
	if overID == "" {
		overID = drag.OverID
	}

	current := sess.store.Current()
	cmd, ok := lineup.ResolveDrop(current, activeID, overID)
	if !ok {
		return MoveOutcome{
			MoveResult: lineup.MoveResult{
				Lineup:   current,
				PlayerID: activeID,
				Reason:   "drop target does not resolve to a move",
			},
			Version: sess.store.Version(),
		}, nil
	}
	return s.executeLocked(ctx, lineupID, sess, cmd), nil
}
