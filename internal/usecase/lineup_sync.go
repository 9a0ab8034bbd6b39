package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	"github.com/sourcegraph/conc/pool"
)

// SyncState tracks one transfer's persistence call.
type SyncState string

const (
	SyncPending    SyncState = "PENDING_SYNC"
	SyncConfirmed  SyncState = "CONFIRMED"
	SyncFailed     SyncState = "SYNC_FAILED"
	SyncSuperseded SyncState = "SUPERSEDED"
)

// SyncRecord is the ledger entry of one committed transfer.
type SyncRecord struct {
	ID                string
	LineupID          string
	PlayerID          string
	Team              lineup.Side
	DisplacedPlayerID string
	Label             string
	State             SyncState
	Attempts          int
	LastError         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type RetryResult struct {
	Attempted int
	Confirmed int
	Failed    int
	Records   []SyncRecord
}

type syncLedger struct {
	mu      sync.Mutex
	limit   int
	records []SyncRecord
}

func newSyncLedger(limit int) *syncLedger {
	return &syncLedger{limit: limit}
}

// open appends a pending record. Earlier failed records for the same player
// are superseded: the newer transfer carries the player's latest team.
func (l *syncLedger) open(rec SyncRecord) SyncRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		if l.records[i].PlayerID == rec.PlayerID && l.records[i].State == SyncFailed {
			l.records[i].State = SyncSuperseded
			l.records[i].UpdatedAt = rec.CreatedAt
		}
	}

	rec.State = SyncPending
	rec.Attempts = 1
	rec.UpdatedAt = rec.CreatedAt
	l.records = append(l.records, rec)
	l.trim()
	return rec
}

// trim drops the oldest settled records beyond the limit. Pending records are
// kept until their call resolves.
func (l *syncLedger) trim() {
	if l.limit <= 0 {
		return
	}
	for len(l.records) > l.limit {
		idx := -1
		for i, rec := range l.records {
			if rec.State != SyncPending {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		l.records = append(l.records[:idx], l.records[idx+1:]...)
	}
}

func (l *syncLedger) resolve(id string, callErr error, at time.Time) (SyncRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		if l.records[i].ID != id {
			continue
		}
		if callErr != nil {
			l.records[i].State = SyncFailed
			l.records[i].LastError = callErr.Error()
		} else {
			l.records[i].State = SyncConfirmed
			l.records[i].LastError = ""
		}
		l.records[i].UpdatedAt = at
		rec := l.records[i]
		l.trim()
		return rec, true
	}
	return SyncRecord{}, false
}

// claimFailed moves every failed record back to pending and returns them.
func (l *syncLedger) claimFailed(at time.Time) []SyncRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]SyncRecord, 0)
	for i := range l.records {
		if l.records[i].State != SyncFailed {
			continue
		}
		l.records[i].State = SyncPending
		l.records[i].Attempts++
		l.records[i].UpdatedAt = at
		out = append(out, l.records[i])
	}
	return out
}

func (l *syncLedger) retarget(id string, team lineup.Side) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		if l.records[i].ID == id {
			l.records[i].Team = team
			return
		}
	}
}

// list returns records newest first.
func (l *syncLedger) list() []SyncRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]SyncRecord, len(l.records))
	for i, rec := range l.records {
		out[len(l.records)-1-i] = rec
	}
	return out
}

func (l *syncLedger) count(state SyncState) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, rec := range l.records {
		if rec.State == state {
			n++
		}
	}
	return n
}

// submitSync hands the persistence call for a committed transfer to the worker
// pool. The caller holds the gate shared. The call runs on a context detached
// from the request: it is never timed out or retried automatically, and is
// cancelled only when Close stops waiting for it.
func (s *LineupEditorService) submitSync(ctx context.Context, ledger *syncLedger, rec SyncRecord, successMessage string) {
	s.inflight.Add(1)
	job := func() {
		defer s.inflight.Done()
		jobCtx, cancel := s.jobContext(ctx)
		defer cancel()
		s.runSync(jobCtx, ledger, rec, successMessage)
	}

	if err := s.pool.Submit(job); err != nil {
		s.logger.WarnContext(ctx, "sync worker pool unavailable, running call on a new goroutine",
			"lineup_id", rec.LineupID,
			"player_id", rec.PlayerID,
			"error", err,
		)
		go job()
	}
}

// jobContext keeps ctx's values but not its deadline or cancellation. It is
// cancelled when Close stops waiting for pending calls.
func (s *LineupEditorService) jobContext(ctx context.Context) (context.Context, context.CancelFunc) {
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.jobs, cancel)
	return jobCtx, func() {
		stop()
		cancel()
	}
}

func (s *LineupEditorService) runSync(ctx context.Context, ledger *syncLedger, rec SyncRecord, successMessage string) {
	err := s.repo.UpdatePlayerTeam(ctx, rec.PlayerID, rec.Team)
	if _, tracked := ledger.resolve(rec.ID, err, s.now()); !tracked {
		s.logger.DebugContext(ctx, "sync record no longer tracked", "sync_id", rec.ID, "lineup_id", rec.LineupID)
	}

	if err != nil {
		s.logger.WarnContext(ctx, "update player team failed",
			"lineup_id", rec.LineupID,
			"player_id", rec.PlayerID,
			"team", rec.Team,
			"attempt", rec.Attempts,
			"error", err,
		)
		s.notifier.ShowError(ctx, syncFailedTitle, syncFailedMessage)
		return
	}

	s.logger.InfoContext(ctx, "player team synced",
		"lineup_id", rec.LineupID,
		"player_id", rec.PlayerID,
		"team", rec.Team,
		"attempt", rec.Attempts,
	)
	s.notifier.ShowSuccess(ctx, successMessage)
}

// SyncStatus lists the sync ledger of a lineup, newest first.
func (s *LineupEditorService) SyncStatus(ctx context.Context, lineupID string) ([]SyncRecord, error) {
	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return nil, err
	}
	return sess.ledger.list(), nil
}

// RetryFailed re-issues one persistence call per failed transfer of a lineup
// and waits for all of them. Each call sends the player's current local team.
func (s *LineupEditorService) RetryFailed(ctx context.Context, lineupID string) (RetryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupEditorService.RetryFailed")
	defer span.End()

	sess, err := s.session(ctx, lineupID)
	if err != nil {
		return RetryResult{}, err
	}
	if !s.enter() {
		return RetryResult{}, ErrEditorClosed
	}

	sess.mu.Lock()
	current := sess.store.Current()
	claimed := sess.ledger.claimFailed(s.now())
	for i := range claimed {
		if p, ok := current.Player(claimed[i].PlayerID); ok && p.Team != claimed[i].Team {
			claimed[i].Team = p.Team
			sess.ledger.retarget(claimed[i].ID, p.Team)
		}
	}
	sess.mu.Unlock()
	s.inflight.Add(len(claimed))
	s.leave()

	result := RetryResult{Attempted: len(claimed)}
	if len(claimed) == 0 {
		result.Records = sess.ledger.list()
		return result, nil
	}

	var confirmed, failed atomic.Int32
	workers := pool.New().WithMaxGoroutines(s.cfg.RetryConcurrency)
	for _, rec := range claimed {
		workers.Go(func() {
			defer s.inflight.Done()
			callCtx, cancel := s.jobContext(ctx)
			defer cancel()
			callErr := s.repo.UpdatePlayerTeam(callCtx, rec.PlayerID, rec.Team)
			sess.ledger.resolve(rec.ID, callErr, s.now())
			if callErr != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "retry update player team failed",
					"lineup_id", rec.LineupID,
					"player_id", rec.PlayerID,
					"attempt", rec.Attempts,
					"error", callErr,
				)
				s.notifier.ShowError(ctx, syncFailedTitle, syncFailedMessage)
				return
			}
			confirmed.Add(1)
			s.notifier.ShowSuccess(ctx, rec.Label)
		})
	}
	workers.Wait()

	result.Confirmed = int(confirmed.Load())
	result.Failed = int(failed.Load())
	result.Records = sess.ledger.list()
	if result.Failed > 0 {
		s.logger.InfoContext(ctx, "sync retry finished with failures",
			"lineup_id", lineupID,
			"attempted", result.Attempted,
			"failed", result.Failed,
		)
	}
	return result, nil
}
