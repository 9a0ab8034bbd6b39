package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	lineupmock "github.com/riskibarqy/pitch-booking/internal/mocks/domain/lineup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLineupEditorService_DragGestureTransfersToContainer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)
	repo.On("UpdatePlayerTeam", mock.Anything, "bob", lineup.TeamB).Return(nil).Once()

	svc, notifier := newTestEditor(t, repo)

	state, err := svc.DragStart(ctx, "match-1", "bob")
	require.NoError(t, err)
	assert.True(t, state.Active())

	state, err = svc.DragOver(ctx, "match-1", lineup.ContainerID(lineup.TeamB))
	require.NoError(t, err)
	assert.Equal(t, "team-B-container", state.OverID)

	snap, err := svc.GetLineup(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, "bob", snap.Drag.ActivePlayerID)
	assert.Zero(t, snap.Version)

	out, err := svc.DragEnd(ctx, "match-1", "", "")
	require.NoError(t, err)
	require.True(t, out.Changed)
	assert.Equal(t, lineup.MoveTransfer, out.Kind)
	svc.Wait()

	snap, err = svc.GetLineup(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cara", "bob"}, teamIDs(snap.Lineup.TeamB()))
	assert.False(t, snap.Drag.Active())
	assert.Equal(t, []recordedNotice{{Kind: "success", Message: "Moved Bob to Team B"}}, notifier.all())
}

func TestLineupEditorService_DragEndOnPlayerReorders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	svc, _ := newTestEditor(t, repo)

	out, err := svc.DragEnd(ctx, "match-1", "bob", "alice")
	require.NoError(t, err)
	require.True(t, out.Changed)
	assert.Equal(t, lineup.MoveReorder, out.Kind)
	assert.Equal(t, []string{"bob", "alice"}, teamIDs(out.Lineup.TeamA()))
	repo.AssertNotCalled(t, "UpdatePlayerTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestLineupEditorService_DragEdgeCases(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	svc, notifier := newTestEditor(t, repo)

	_, err := svc.DragOver(ctx, "match-1", "alice")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.DragStart(ctx, "match-1", "ghost")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.DragStart(ctx, "match-1", "bob")
	require.NoError(t, err)

	// dropped outside any target
	out, err := svc.DragEnd(ctx, "match-1", "", "")
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.NotEmpty(t, out.Reason)

	snap, err := svc.GetLineup(ctx, "match-1")
	require.NoError(t, err)
	assert.False(t, snap.Drag.Active())
	assert.Zero(t, snap.HistoryDepth)

	out, err = svc.DragEnd(ctx, "match-1", "bob", "bob")
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Empty(t, notifier.all())
}
