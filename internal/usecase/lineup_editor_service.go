package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	"github.com/riskibarqy/pitch-booking/internal/platform/id"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
	"github.com/riskibarqy/pitch-booking/internal/platform/resilience"
)

type EditorConfig struct {
	HistoryLimit     int
	SyncWorkers      int
	RetryConcurrency int
	SyncLedgerLimit  int
}

// LineupSnapshot is the read model of one editing session.
type LineupSnapshot struct {
	Lineup       lineup.Lineup
	Version      uint64
	HistoryDepth int
	PendingSyncs int
	FailedSyncs  int
	Drag         DragState
}

// MoveOutcome is the engine result plus what the editor did with it. Sync is
// set only for committed transfers.
type MoveOutcome struct {
	lineup.MoveResult
	Version uint64
	Sync    *SyncRecord
}

type UndoOutcome struct {
	Undone    bool
	Label     string
	Lineup    lineup.Lineup
	Version   uint64
	Remaining int
}

type editorSession struct {
	mu      sync.Mutex
	store   *lineup.Store
	history *lineup.History
	ledger  *syncLedger
	drag    DragState
}

// LineupEditorService owns one editing session per lineup: the live store,
// its undo history and the ledger of persistence calls. Local commits happen
// before any remote call; remote failures never roll local state back.
type LineupEditorService struct {
	repo     lineup.Repository
	notifier Notifier
	ids      id.Generator
	cfg      EditorConfig
	logger   *logging.Logger
	now      func() time.Time

	pool     *ants.Pool
	inflight sync.WaitGroup
	// jobs is cancelled only when Close gives up waiting on pending calls.
	jobs       context.Context
	cancelJobs context.CancelFunc

	// gate is held shared by every mutation from the closed check until its
	// persistence call is registered in inflight. Close takes it exclusively.
	gate   sync.RWMutex
	closed bool

	loadFlight resilience.SingleFlight

	mu       sync.RWMutex
	loaded   bool
	order    []string
	sessions map[string]*editorSession
}

func NewLineupEditorService(
	repo lineup.Repository,
	notifier Notifier,
	ids id.Generator,
	cfg EditorConfig,
	logger *logging.Logger,
) (*LineupEditorService, error) {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = lineup.DefaultHistoryLimit
	}
	if cfg.SyncWorkers <= 0 {
		cfg.SyncWorkers = 16
	}
	if cfg.RetryConcurrency <= 0 {
		cfg.RetryConcurrency = 4
	}
	if cfg.SyncLedgerLimit <= 0 {
		cfg.SyncLedgerLimit = 100
	}

	workerPool, err := ants.NewPool(cfg.SyncWorkers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create sync worker pool: %w", err)
	}

	jobs, cancelJobs := context.WithCancel(context.Background())
	return &LineupEditorService{
		repo:       repo,
		notifier:   notifier,
		ids:        ids,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		pool:       workerPool,
		jobs:       jobs,
		cancelJobs: cancelJobs,
		sessions:   make(map[string]*editorSession),
	}, nil
}

// LoadLineups fetches every lineup from the source and starts a fresh session
// for each one, discarding previous history and sync ledgers.
func (s *LineupEditorService) LoadLineups(ctx context.Context) ([]lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupEditorService.LoadLineups")
	defer span.End()

	items, err := s.repo.FetchLineups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch lineups: %v", ErrDependencyUnavailable, err)
	}

	sessions := make(map[string]*editorSession, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			s.logger.WarnContext(ctx, "skip lineup without id", "schedule", item.ScheduleName)
			continue
		}
		if _, dup := sessions[item.ID]; dup {
			s.logger.WarnContext(ctx, "skip duplicate lineup", "lineup_id", item.ID)
			continue
		}
		if err := lineup.CheckInvariants(item); err != nil {
			s.logger.WarnContext(ctx, "loaded lineup breaks roster invariants", "lineup_id", item.ID, "error", err)
		}
		sessions[item.ID] = s.newSession(item)
		order = append(order, item.ID)
	}

	s.mu.Lock()
	s.sessions = sessions
	s.order = order
	s.loaded = true
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "lineups loaded", "count", len(order))

	out := make([]lineup.Lineup, 0, len(order))
	for _, lineupID := range order {
		out = append(out, sessions[lineupID].store.Current())
	}
	return out, nil
}

func (s *LineupEditorService) ListLineups(ctx context.Context) ([]LineupSnapshot, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	sessions := make([]*editorSession, 0, len(s.order))
	for _, lineupID := range s.order {
		sessions = append(sessions, s.sessions[lineupID])
	}
	s.mu.RUnlock()

	out := make([]LineupSnapshot, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.snapshot())
	}
	return out, nil
}

func (s *LineupEditorService) GetLineup(ctx context.Context, lineupID string) (LineupSnapshot, error) {
	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return LineupSnapshot{}, err
	}
	return sess.snapshot(), nil
}

func (s *LineupEditorService) Reorder(ctx context.Context, lineupID, playerID string, targetIndex int) (MoveOutcome, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return MoveOutcome{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}
	return s.Execute(ctx, lineupID, lineup.ReorderCommand{PlayerID: playerID, TargetIndex: targetIndex})
}

func (s *LineupEditorService) Transfer(ctx context.Context, lineupID, playerID string, team lineup.Side, targetIndex int) (MoveOutcome, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return MoveOutcome{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}
	if !team.Valid() {
		return MoveOutcome{}, fmt.Errorf("%w: target_team must be A or B", ErrInvalidInput)
	}
	return s.Execute(ctx, lineupID, lineup.TransferCommand{PlayerID: playerID, TargetTeam: team, TargetIndex: targetIndex})
}

// Execute runs a command through the engine and commits the result. A
// committed transfer gets exactly one asynchronous UpdatePlayerTeam call;
// reorders stay local.
func (s *LineupEditorService) Execute(ctx context.Context, lineupID string, cmd lineup.Command) (MoveOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupEditorService.Execute")
	defer span.End()

	if cmd == nil {
		return MoveOutcome{}, fmt.Errorf("%w: command is required", ErrInvalidInput)
	}
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

	return s.executeLocked(ctx, lineupID, sess, cmd), nil
}

func (s *LineupEditorService) executeLocked(ctx context.Context, lineupID string, sess *editorSession, cmd lineup.Command) MoveOutcome {
	current := sess.store.Current()
	res := lineup.Execute(current, cmd)
	out := MoveOutcome{MoveResult: res, Version: sess.store.Version()}
	if !res.Changed {
		s.logger.DebugContext(ctx, "lineup move not applied",
			"lineup_id", lineupID,
			"player_id", res.PlayerID,
			"kind", cmd.Kind(),
			"reason", res.Reason,
		)
		return out
	}

	sess.history.Record(current, res.Label)
	sess.store.Apply(res.Lineup)
	out.Version = sess.store.Version()

	if res.Kind != lineup.MoveTransfer {
		return out
	}

	now := s.now().UTC()
	rec := sess.ledger.open(SyncRecord{
		ID:                s.newID(),
		LineupID:          lineupID,
		PlayerID:          res.PlayerID,
		Team:              res.TargetTeam,
		DisplacedPlayerID: res.DisplacedPlayerID,
		Label:             res.Label,
		CreatedAt:         now,
	})
	out.Sync = &rec

	s.submitSync(ctx, sess.ledger, rec, res.Label)
	return out
}

// Undo restores the lineup recorded before the last committed action. Undo is
// local only: no persistence call is made for it.
func (s *LineupEditorService) Undo(ctx context.Context, lineupID string) (UndoOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupEditorService.Undo")
	defer span.End()

	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return UndoOutcome{}, err
	}
	if !s.enter() {
		return UndoOutcome{}, ErrEditorClosed
	}
	defer s.leave()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	entry, ok := sess.history.Undo()
	if !ok {
		s.notifier.ShowWarning(ctx, nothingToUndo)
		return UndoOutcome{
			Lineup:  sess.store.Current(),
			Version: sess.store.Version(),
		}, nil
	}

	sess.store.Apply(entry.Lineup)
	s.notifier.ShowSuccess(ctx, "Undone: "+entry.Label)

	return UndoOutcome{
		Undone:    true,
		Label:     entry.Label,
		Lineup:    sess.store.Current(),
		Version:   sess.store.Version(),
		Remaining: sess.history.Len(),
	}, nil
}

// History lists undo steps of a lineup, newest first.
func (s *LineupEditorService) History(ctx context.Context, lineupID string) ([]lineup.Entry, error) {
	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return nil, err
	}
	return sess.history.Entries(), nil
}

// UpdatePlayerTeam writes a team assignment straight to the repository. It is
// the backend side of the persistence contract and does not touch sessions.
func (s *LineupEditorService) UpdatePlayerTeam(ctx context.Context, playerID string, team lineup.Side) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupEditorService.UpdatePlayerTeam")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}
	if !team.Valid() {
		return fmt.Errorf("%w: team must be A or B", ErrInvalidInput)
	}

	if err := s.repo.UpdatePlayerTeam(ctx, playerID, team); err != nil {
		return fmt.Errorf("update player team: %w", err)
	}
	return nil
}

// Wait blocks until every submitted persistence call has returned.
func (s *LineupEditorService) Wait() {
	s.inflight.Wait()
}

// Close rejects further mutations with ErrEditorClosed and waits for pending
// persistence calls until ctx is done. Calls still running at that point are
// cancelled and Close returns ctx's error.
func (s *LineupEditorService) Close(ctx context.Context) error {
	s.gate.Lock()
	already := s.closed
	s.closed = true
	s.gate.Unlock()
	if already {
		return nil
	}
	defer s.pool.Release()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelJobs()
		return nil
	case <-ctx.Done():
		s.cancelJobs()
		s.logger.WarnContext(ctx, "editor closed with persistence calls still pending", "error", ctx.Err())
		return fmt.Errorf("wait for pending sync calls: %w", ctx.Err())
	}
}

// enter reports whether the editor still accepts mutations. On true the
// caller must call leave once any persistence call has been submitted.
func (s *LineupEditorService) enter() bool {
	s.gate.RLock()
	if s.closed {
		s.gate.RUnlock()
		return false
	}
	return true
}

func (s *LineupEditorService) leave() {
	s.gate.RUnlock()
}

func (s *LineupEditorService) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// ensureLoaded loads the sessions on first use. Concurrent first requests
// share one load so none of them replaces sessions another already edits.
func (s *LineupEditorService) ensureLoaded(ctx context.Context) error {
	if s.isLoaded() {
		return nil
	}
	_, err, _ := s.loadFlight.Do(ctx, "lineups", func() (any, error) {
		if s.isLoaded() {
			return nil, nil
		}
		_, err := s.LoadLineups(ctx)
		return nil, err
	})
	return err
}

func (s *LineupEditorService) session(ctx context.Context, lineupID string) (*editorSession, error) {
	lineupID = strings.TrimSpace(lineupID)
	if lineupID == "" {
		return nil, fmt.Errorf("%w: lineup_id is required", ErrInvalidInput)
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	sess, ok := s.sessions[lineupID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: lineup=%s", ErrNotFound, lineupID)
	}
	return sess, nil
}

func (s *LineupEditorService) newSession(item lineup.Lineup) *editorSession {
	return &editorSession{
		store: lineup.NewStore(item),
		history: lineup.NewHistory(s.cfg.HistoryLimit,
			lineup.WithHistoryClock(s.now),
			lineup.WithHistoryIDs(s.newID),
		),
		ledger: newSyncLedger(s.cfg.SyncLedgerLimit),
	}
}

func (s *LineupEditorService) newID() string {
	value, err := s.ids.NewID()
	if err != nil {
		s.logger.Warn("generate id failed", "error", err)
		return ""
	}
	return value
}

func (sess *editorSession) snapshot() LineupSnapshot {
	sess.mu.Lock()
	drag := sess.drag
	sess.mu.Unlock()

	return LineupSnapshot{
		Lineup:       sess.store.Current(),
		Version:      sess.store.Version(),
		HistoryDepth: sess.history.Len(),
		PendingSyncs: sess.ledger.count(SyncPending),
		FailedSyncs:  sess.ledger.count(SyncFailed),
		Drag:         drag,
	}
}
