package httpapi

import (
	"time"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	"github.com/riskibarqy/pitch-booking/internal/usecase"
)

const dateLayout = "2006-01-02"

type reorderRequest struct {
	PlayerID    string `json:"player_id" validate:"required"`
	TargetIndex int    `json:"target_index"`
}

type transferRequest struct {
	PlayerID    string `json:"player_id" validate:"required"`
	TargetTeam  string `json:"target_team" validate:"required,oneof=A B a b"`
	TargetIndex *int   `json:"target_index" validate:"omitempty,min=-1"`
}

type dragStartRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type dragOverRequest struct {
	OverID string `json:"over_id" validate:"required"`
}

type dragEndRequest struct {
	ActiveID string `json:"active_id"`
	OverID   string `json:"over_id"`
}

type teamUpdateRequest struct {
	Team string `json:"team" validate:"required,oneof=A B a b"`
}

type healthDTO struct {
	Status string         `json:"status"`
	Cache  *cacheStatsDTO `json:"cache,omitempty"`
}

type cacheStatsDTO struct {
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Entries int    `json:"entries"`
}

type playerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Order    int    `json:"order"`
	Notes    string `json:"notes,omitempty"`
}

type lineupDTO struct {
	ID           string      `json:"id"`
	ScheduleName string      `json:"schedule_name"`
	Venue        string      `json:"venue"`
	Date         string      `json:"date,omitempty"`
	Time         string      `json:"time"`
	Status       string      `json:"status"`
	TotalPlayers int         `json:"total_players"`
	TeamA        []playerDTO `json:"team_a"`
	TeamB        []playerDTO `json:"team_b"`
}

type lineupSessionDTO struct {
	lineupDTO
	Version      uint64   `json:"version"`
	HistoryDepth int      `json:"history_depth"`
	PendingSyncs int      `json:"pending_syncs"`
	FailedSyncs  int      `json:"failed_syncs"`
	Drag         *dragDTO `json:"drag,omitempty"`
}

type dragDTO struct {
	ActivePlayerID string    `json:"active_player_id"`
	OverID         string    `json:"over_id,omitempty"`
	StartedAt      time.Time `json:"started_at"`
}

type moveDTO struct {
	Applied           bool           `json:"applied"`
	Kind              string         `json:"kind"`
	PlayerID          string         `json:"player_id"`
	TargetTeam        string         `json:"target_team,omitempty"`
	Swapped           bool           `json:"swapped"`
	DisplacedPlayerID string         `json:"displaced_player_id,omitempty"`
	Label             string         `json:"label,omitempty"`
	Reason            string         `json:"reason,omitempty"`
	Version           uint64         `json:"version"`
	Lineup            lineupDTO      `json:"lineup"`
	Sync              *syncRecordDTO `json:"sync,omitempty"`
}

type undoDTO struct {
	Undone    bool      `json:"undone"`
	Label     string    `json:"label,omitempty"`
	Version   uint64    `json:"version"`
	Remaining int       `json:"remaining"`
	Lineup    lineupDTO `json:"lineup"`
}

type historyEntryDTO struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	RecordedAt   time.Time `json:"recorded_at"`
	TotalPlayers int       `json:"total_players"`
}

type syncRecordDTO struct {
	ID                string    `json:"id"`
	PlayerID          string    `json:"player_id"`
	Team              string    `json:"team"`
	DisplacedPlayerID string    `json:"displaced_player_id,omitempty"`
	Label             string    `json:"label"`
	State             string    `json:"state"`
	Attempts          int       `json:"attempts"`
	LastError         string    `json:"last_error,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type retryDTO struct {
	Attempted int             `json:"attempted"`
	Confirmed int             `json:"confirmed"`
	Failed    int             `json:"failed"`
	Records   []syncRecordDTO `json:"records"`
}

func lineupToDTO(l lineup.Lineup) lineupDTO {
	out := lineupDTO{
		ID:           l.ID,
		ScheduleName: l.ScheduleName,
		Venue:        l.Venue,
		Time:         l.Time,
		Status:       string(l.Status),
		TotalPlayers: l.TotalPlayers(),
		TeamA:        playersToDTO(l.TeamA()),
		TeamB:        playersToDTO(l.TeamB()),
	}
	if !l.Date.IsZero() {
		out.Date = l.Date.Format(dateLayout)
	}
	return out
}

func playersToDTO(items []lineup.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerDTO{
			ID:       p.ID,
			Name:     p.Name,
			Phone:    p.Phone,
			Position: string(p.Position),
			Team:     string(p.Team),
			Order:    p.Order,
			Notes:    p.Notes,
		})
	}
	return out
}

func snapshotToDTO(s usecase.LineupSnapshot) lineupSessionDTO {
	out := lineupSessionDTO{
		lineupDTO:    lineupToDTO(s.Lineup),
		Version:      s.Version,
		HistoryDepth: s.HistoryDepth,
		PendingSyncs: s.PendingSyncs,
		FailedSyncs:  s.FailedSyncs,
	}
	if s.Drag.Active() {
		out.Drag = dragToDTO(s.Drag)
	}
	return out
}

func dragToDTO(d usecase.DragState) *dragDTO {
	return &dragDTO{
		ActivePlayerID: d.ActivePlayerID,
		OverID:         d.OverID,
		StartedAt:      d.StartedAt,
	}
}

func moveToDTO(out usecase.MoveOutcome) moveDTO {
	dto := moveDTO{
		Applied:           out.Changed,
		Kind:              string(out.Kind),
		PlayerID:          out.PlayerID,
		TargetTeam:        string(out.TargetTeam),
		Swapped:           out.Swapped,
		DisplacedPlayerID: out.DisplacedPlayerID,
		Label:             out.Label,
		Reason:            out.Reason,
		Version:           out.Version,
		Lineup:            lineupToDTO(out.Lineup),
	}
	if out.Sync != nil {
		rec := syncRecordToDTO(*out.Sync)
		dto.Sync = &rec
	}
	return dto
}

func undoToDTO(out usecase.UndoOutcome) undoDTO {
	return undoDTO{
		Undone:    out.Undone,
		Label:     out.Label,
		Version:   out.Version,
		Remaining: out.Remaining,
		Lineup:    lineupToDTO(out.Lineup),
	}
}

func historyToDTO(entries []lineup.Entry) []historyEntryDTO {
	out := make([]historyEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryDTO{
			ID:           e.ID,
			Label:        e.Label,
			RecordedAt:   e.RecordedAt,
			TotalPlayers: e.Lineup.TotalPlayers(),
		})
	}
	return out
}

func syncRecordToDTO(rec usecase.SyncRecord) syncRecordDTO {
	return syncRecordDTO{
		ID:                rec.ID,
		PlayerID:          rec.PlayerID,
		Team:              string(rec.Team),
		DisplacedPlayerID: rec.DisplacedPlayerID,
		Label:             rec.Label,
		State:             string(rec.State),
		Attempts:          rec.Attempts,
		LastError:         rec.LastError,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

func syncRecordsToDTO(records []usecase.SyncRecord) []syncRecordDTO {
	out := make([]syncRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, syncRecordToDTO(rec))
	}
	return out
}
