package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	lineupmock "github.com/riskibarqy/pitch-booking/internal/mocks/domain/lineup"
	"github.com/riskibarqy/pitch-booking/internal/platform/id"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordedNotice struct {
	Kind    string
	Title   string
	Message string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []recordedNotice
}

func (n *recordingNotifier) ShowSuccess(_ context.Context, message string) {
	n.add(recordedNotice{Kind: "success", Message: message})
}

func (n *recordingNotifier) ShowError(_ context.Context, title, message string) {
	n.add(recordedNotice{Kind: "error", Title: title, Message: message})
}

func (n *recordingNotifier) ShowWarning(_ context.Context, message string) {
	n.add(recordedNotice{Kind: "warning", Message: message})
}

func (n *recordingNotifier) add(notice recordedNotice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) all() []recordedNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedNotice(nil), n.notices...)
}

func editorMeta(id string) lineup.Meta {
	return lineup.Meta{
		ID:           id,
		ScheduleName: "Friday Futsal",
		Venue:        "Kemang Arena",
		Date:         time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
		Time:         "20:00-21:00",
		Status:       lineup.StatusConfirmed,
	}
}

func editorLineups() []lineup.Lineup {
	return []lineup.Lineup{
		lineup.Normalize(editorMeta("match-1"),
			[]lineup.Player{
				{ID: "alice", Name: "Alice", Position: lineup.PositionGoalkeeper},
				{ID: "bob", Name: "Bob", Position: lineup.PositionFieldPlayer},
			},
			[]lineup.Player{
				{ID: "cara", Name: "Cara", Position: lineup.PositionGoalkeeper},
			},
		),
		lineup.Normalize(editorMeta("match-2"),
			[]lineup.Player{{ID: "dina", Name: "Dina", Position: lineup.PositionFieldPlayer}},
			[]lineup.Player{{ID: "edo", Name: "Edo", Position: lineup.PositionFieldPlayer}},
		),
	}
}

func teamIDs(players []lineup.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func newTestEditor(t *testing.T, repo *lineupmock.Repository) (*LineupEditorService, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	svc, err := NewLineupEditorService(repo, notifier, &id.Sequence{Prefix: "id-"}, EditorConfig{SyncWorkers: 4}, logging.NewNop())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		_ = svc.Close(context.Background())
	})

	return svc, notifier
}

func expectFetch(repo *lineupmock.Repository) {
	repo.On("FetchLineups", mock.Anything).Return(editorLineups(), nil).Once()
}

func TestLineupEditorService_TransferCommitsBeforeRemoteCall(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	release := make(chan struct{})
	repo.
		On("UpdatePlayerTeam", mock.Anything, "alice", lineup.TeamB).
		Run(func(mock.Arguments) { <-release }).
		Return(nil).
		Once()

	svc, notifier := newTestEditor(t, repo)

	out, err := svc.Transfer(ctx, "match-1", "alice", lineup.TeamB, 0)
	require.NoError(t, err)
	require.True(t, out.Changed)
	assert.True(t, out.Swapped)
	assert.Equal(t, "cara", out.DisplacedPlayerID)
	require.NotNil(t, out.Sync)
	assert.Equal(t, SyncPending, out.Sync.State)

	snap, err := svc.GetLineup(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "cara"}, teamIDs(snap.Lineup.TeamA()))
	assert.Equal(t, []string{"alice"}, teamIDs(snap.Lineup.TeamB()))
	assert.Equal(t, 1, snap.PendingSyncs)
	assert.Equal(t, 1, snap.HistoryDepth)
	assert.Empty(t, notifier.all())

	close(release)
	svc.Wait()

	records, err := svc.SyncStatus(ctx, "match-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, SyncConfirmed, records[0].State)
	assert.Equal(t, "cara", records[0].DisplacedPlayerID)

	assert.Equal(t, []recordedNotice{{Kind: "success", Message: "Swapped goalkeepers Alice and Cara"}}, notifier.all())
	repo.AssertNumberOfCalls(t, "UpdatePlayerTeam", 1)
}

func TestLineupEditorService_FailedSyncKeepsLocalState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)
	repo.
		On("UpdatePlayerTeam", mock.Anything, "bob", lineup.TeamB).
		Return(errors.New("booking backend unavailable")).
		Once()

	svc, notifier := newTestEditor(t, repo)

	out, err := svc.Transfer(ctx, "match-1", "bob", lineup.TeamB, lineup.AppendIndex)
	require.NoError(t, err)
	require.True(t, out.Changed)
	svc.Wait()

	snap, err := svc.GetLineup(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, teamIDs(snap.Lineup.TeamA()))
	assert.Equal(t, []string{"cara", "bob"}, teamIDs(snap.Lineup.TeamB()))
	assert.Equal(t, 1, snap.FailedSyncs)

	records, err := svc.SyncStatus(ctx, "match-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, SyncFailed, records[0].State)
	assert.Equal(t, "booking backend unavailable", records[0].LastError)

	assert.Equal(t, []recordedNotice{{
		Kind:    "error",
		Title:   "Sync failed",
		Message: "Failed to update player team. Changes saved locally.",
	}}, notifier.all())
}

func TestLineupEditorService_ReorderIsLocalAndSilent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	svc, notifier := newTestEditor(t, repo)

	out, err := svc.Reorder(ctx, "match-1", "bob", 0)
	require.NoError(t, err)
	require.True(t, out.Changed)
	assert.Nil(t, out.Sync)
	svc.Wait()

	snap, err := svc.GetLineup(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, teamIDs(snap.Lineup.TeamA()))
	assert.Equal(t, uint64(1), snap.Version)

	records, err := svc.SyncStatus(ctx, "match-1")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, notifier.all())
	repo.AssertNotCalled(t, "UpdatePlayerTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestLineupEditorService_RejectedMoveLeavesNoTrace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	svc, notifier := newTestEditor(t, repo)

	out, err := svc.Transfer(ctx, "match-1", "bob", lineup.TeamB, 7)
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.NotEmpty(t, out.Reason)
	assert.Nil(t, out.Sync)

	out, err = svc.Reorder(ctx, "match-1", "bob", 1)
	require.NoError(t, err)
	assert.False(t, out.Changed)

	history, err := svc.History(ctx, "match-1")
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, notifier.all())
	repo.AssertNotCalled(t, "UpdatePlayerTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestLineupEditorService_UndoRestoresPriorLineupLocally(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)
	repo.On("UpdatePlayerTeam", mock.Anything, "alice", lineup.TeamB).Return(nil).Once()

	svc, notifier := newTestEditor(t, repo)
	original := editorLineups()[0]

	_, err := svc.Transfer(ctx, "match-1", "alice", lineup.TeamB, 0)
	require.NoError(t, err)
	svc.Wait()

	undo, err := svc.Undo(ctx, "match-1")
	require.NoError(t, err)
	require.True(t, undo.Undone)
	assert.Equal(t, "Swapped goalkeepers Alice and Cara", undo.Label)
	assert.True(t, undo.Lineup.Equal(original))
	assert.Equal(t, 0, undo.Remaining)

	undo, err = svc.Undo(ctx, "match-1")
	require.NoError(t, err)
	assert.False(t, undo.Undone)
	assert.True(t, undo.Lineup.Equal(original))

	svc.Wait()
	assert.Equal(t, []recordedNotice{
		{Kind: "success", Message: "Swapped goalkeepers Alice and Cara"},
		{Kind: "success", Message: "Undone: Swapped goalkeepers Alice and Cara"},
		{Kind: "warning", Message: "Nothing to undo"},
	}, notifier.all())
	repo.AssertNumberOfCalls(t, "UpdatePlayerTeam", 1)
}

func TestLineupEditorService_HistoryIsBounded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	svc, _ := newTestEditor(t, repo)

	for i := 0; i < 12; i++ {
		out, err := svc.Reorder(ctx, "match-1", "bob", i%2)
		require.NoError(t, err)
		require.True(t, out.Changed, "reorder %d", i)
	}

	history, err := svc.History(ctx, "match-1")
	require.NoError(t, err)
	require.Len(t, history, lineup.DefaultHistoryLimit)
	assert.Equal(t, "id-12", history[0].ID)

	undone := 0
	for {
		out, err := svc.Undo(ctx, "match-1")
		require.NoError(t, err)
		if !out.Undone {
			break
		}
		undone++
	}
	assert.Equal(t, lineup.DefaultHistoryLimit, undone)
}

func TestLineupEditorService_ReloadResetsSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	repo.On("FetchLineups", mock.Anything).Return(editorLineups(), nil).Twice()
	repo.On("UpdatePlayerTeam", mock.Anything, "dina", lineup.TeamB).Return(errors.New("timeout")).Once()

	svc, _ := newTestEditor(t, repo)

	_, err := svc.Transfer(ctx, "match-2", "dina", lineup.TeamB, 0)
	require.NoError(t, err)
	svc.Wait()

	items, err := svc.LoadLineups(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	snap, err := svc.GetLineup(ctx, "match-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"dina"}, teamIDs(snap.Lineup.TeamA()))
	assert.Zero(t, snap.HistoryDepth)
	assert.Zero(t, snap.FailedSyncs)
	assert.Zero(t, snap.Version)

	list, err := svc.ListLineups(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "match-1", list[0].Lineup.ID)
	assert.Equal(t, "match-2", list[1].Lineup.ID)
}

func TestLineupEditorService_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("source unavailable", func(t *testing.T) {
		repo := lineupmock.NewRepository(t)
		repo.On("FetchLineups", mock.Anything).Return(nil, errors.New("connection refused")).Once()
		svc, _ := newTestEditor(t, repo)

		_, err := svc.GetLineup(ctx, "match-1")
		if !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	})

	t.Run("unknown lineup", func(t *testing.T) {
		repo := lineupmock.NewRepository(t)
		expectFetch(repo)
		svc, _ := newTestEditor(t, repo)

		_, err := svc.Undo(ctx, "match-404")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		repo := lineupmock.NewRepository(t)
		svc, _ := newTestEditor(t, repo)

		_, err := svc.Transfer(ctx, "match-1", "bob", lineup.Side("C"), 0)
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.Reorder(ctx, "match-1", " ", 0)
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.Execute(ctx, "match-1", nil)
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.GetLineup(ctx, "")
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestLineupEditorService_RetryFailedSendsCurrentTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)
	repo.On("UpdatePlayerTeam", mock.Anything, "bob", lineup.TeamB).Return(errors.New("502 bad gateway")).Once()
	repo.On("UpdatePlayerTeam", mock.Anything, "bob", lineup.TeamA).Return(nil).Once()

	svc, notifier := newTestEditor(t, repo)

	_, err := svc.Transfer(ctx, "match-1", "bob", lineup.TeamB, 0)
	require.NoError(t, err)
	svc.Wait()

	// undo is local, so the backend still holds bob in team A
	_, err = svc.Undo(ctx, "match-1")
	require.NoError(t, err)

	result, err := svc.RetryFailed(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 1, result.Confirmed)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Records, 1)
	assert.Equal(t, SyncConfirmed, result.Records[0].State)
	assert.Equal(t, lineup.TeamA, result.Records[0].Team)
	assert.Equal(t, 2, result.Records[0].Attempts)

	kinds := make([]string, 0)
	for _, n := range notifier.all() {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []string{"error", "success", "success"}, kinds)

	result, err = svc.RetryFailed(ctx, "match-1")
	require.NoError(t, err)
	assert.Zero(t, result.Attempted)
}

func TestLineupEditorService_NewerTransferSupersedesFailedRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)
	repo.On("UpdatePlayerTeam", mock.Anything, "bob", lineup.TeamB).Return(errors.New("boom")).Once()
	repo.On("UpdatePlayerTeam", mock.Anything, "bob", lineup.TeamA).Return(nil).Once()

	svc, _ := newTestEditor(t, repo)

	_, err := svc.Transfer(ctx, "match-1", "bob", lineup.TeamB, lineup.AppendIndex)
	require.NoError(t, err)
	svc.Wait()
	_, err = svc.Transfer(ctx, "match-1", "bob", lineup.TeamA, lineup.AppendIndex)
	require.NoError(t, err)
	svc.Wait()

	records, err := svc.SyncStatus(ctx, "match-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, SyncConfirmed, records[0].State)
	assert.Equal(t, SyncSuperseded, records[1].State)

	result, err := svc.RetryFailed(ctx, "match-1")
	require.NoError(t, err)
	assert.Zero(t, result.Attempted)
}

func TestLineupEditorService_OneCallPerTransfer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)
	repo.On("UpdatePlayerTeam", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(6)

	svc, notifier := newTestEditor(t, repo)
	_, err := svc.LoadLineups(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, lineupID := range []string{"match-1", "match-2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 3; i++ {
				snap, err := svc.GetLineup(ctx, lineupID)
				if err != nil {
					t.Errorf("get lineup: %v", err)
					return
				}
				team := snap.Lineup.TeamA()
				if len(team) == 0 {
					team = snap.Lineup.TeamB()
				}
				p := team[len(team)-1]
				out, err := svc.Transfer(ctx, lineupID, p.ID, p.Team.Opposite(), lineup.AppendIndex)
				if err != nil || !out.Changed {
					t.Errorf("transfer %s: %v %s", p.ID, err, out.Reason)
					return
				}
			}
		}()
	}
	wg.Wait()
	svc.Wait()

	repo.AssertNumberOfCalls(t, "UpdatePlayerTeam", 6)
	assert.Len(t, notifier.all(), 6)

	for _, lineupID := range []string{"match-1", "match-2"} {
		snap, err := svc.GetLineup(ctx, lineupID)
		require.NoError(t, err)
		require.NoError(t, lineup.CheckInvariants(snap.Lineup))
		assert.Equal(t, 3, snap.HistoryDepth)
	}
}

func TestLineupEditorService_MovesAfterCloseAreRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	svc, _ := newTestEditor(t, repo)
	_, err := svc.LoadLineups(ctx)
	require.NoError(t, err)
	_, err = svc.Reorder(ctx, "match-1", "bob", 0)
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx))

	_, err = svc.Transfer(ctx, "match-1", "bob", lineup.TeamB, lineup.AppendIndex)
	require.ErrorIs(t, err, ErrEditorClosed)
	_, err = svc.Undo(ctx, "match-1")
	require.ErrorIs(t, err, ErrEditorClosed)
	_, err = svc.DragEnd(ctx, "match-1", "alice", lineup.ContainerID(lineup.TeamB))
	require.ErrorIs(t, err, ErrEditorClosed)
	_, err = svc.RetryFailed(ctx, "match-1")
	require.ErrorIs(t, err, ErrEditorClosed)

	snap, err := svc.GetLineup(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, teamIDs(snap.Lineup.TeamA()))
	assert.Equal(t, 1, snap.HistoryDepth)
	repo.AssertNotCalled(t, "UpdatePlayerTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestLineupEditorService_CloseStopsWaitingAtDeadline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	expectFetch(repo)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	repo.On("UpdatePlayerTeam", mock.Anything, "bob", lineup.TeamB).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
			close(cancelled)
		}).
		Return(context.Canceled).
		Once()

	svc, notifier := newTestEditor(t, repo)
	_, err := svc.Transfer(ctx, "match-1", "bob", lineup.TeamB, lineup.AppendIndex)
	require.NoError(t, err)
	<-started

	closeCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	begun := time.Now()
	err = svc.Close(closeCtx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(begun), 2*time.Second)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("pending persistence call was not cancelled after Close gave up")
	}
	svc.Wait()

	records, err := svc.SyncStatus(ctx, "match-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, SyncFailed, records[0].State)
	assert.Equal(t, "error", notifier.all()[0].Kind)
	require.NoError(t, svc.Close(ctx))
}

func TestLineupEditorService_ConcurrentFirstRequestsLoadOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := lineupmock.NewRepository(t)
	repo.On("FetchLineups", mock.Anything).
		After(30*time.Millisecond).
		Return(editorLineups(), nil).
		Once()

	svc, _ := newTestEditor(t, repo)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ListLineups(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	repo.AssertNumberOfCalls(t, "FetchLineups", 1)
	snaps, err := svc.ListLineups(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}
