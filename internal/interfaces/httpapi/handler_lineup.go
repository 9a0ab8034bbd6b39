package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
)

func (h *Handler) ListLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLineups")
	defer span.End()

	items, err := h.editor.ListLineups(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list lineups failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]lineupSessionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, snapshotToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, itemsData[lineupSessionDTO]{Items: out})
}

// ReloadLineups refetches every lineup and resets local editing state.
func (h *Handler) ReloadLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReloadLineups")
	defer span.End()

	items, err := h.editor.LoadLineups(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reload lineups failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]lineupDTO, 0, len(items))
	for _, item := range items {
		out = append(out, lineupToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, itemsData[lineupDTO]{Items: out})
}

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	item, err := h.editor.GetLineup(ctx, lineupID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(item))
}

func (h *Handler) ReorderLineupPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReorderLineupPlayer")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req reorderRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.editor.Reorder(ctx, lineupID, req.PlayerID, req.TargetIndex)
	if err != nil {
		h.logger.WarnContext(ctx, "reorder lineup player failed", "lineup_id", lineupID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, moveToDTO(out))
}

func (h *Handler) TransferLineupPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TransferLineupPlayer")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req transferRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	targetIndex := lineup.AppendIndex
	if req.TargetIndex != nil {
		targetIndex = *req.TargetIndex
	}

	out, err := h.editor.Transfer(ctx, lineupID, req.PlayerID, parseSide(req.TargetTeam), targetIndex)
	if err != nil {
		h.logger.WarnContext(ctx, "transfer lineup player failed", "lineup_id", lineupID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, moveToDTO(out))
}

func (h *Handler) UndoLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoLineup")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	out, err := h.editor.Undo(ctx, lineupID)
	if err != nil {
		h.logger.WarnContext(ctx, "undo lineup failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, undoToDTO(out))
}

func (h *Handler) ListLineupHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLineupHistory")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	entries, err := h.editor.History(ctx, lineupID)
	if err != nil {
		h.logger.WarnContext(ctx, "list lineup history failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, itemsData[historyEntryDTO]{Items: historyToDTO(entries)})
}

func (h *Handler) GetLineupSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineupSync")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	records, err := h.editor.SyncStatus(ctx, lineupID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup sync failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, itemsData[syncRecordDTO]{Items: syncRecordsToDTO(records)})
}

func (h *Handler) RetryLineupSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RetryLineupSync")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	res, err := h.editor.RetryFailed(ctx, lineupID)
	if err != nil {
		h.logger.WarnContext(ctx, "retry lineup sync failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, retryDTO{
		Attempted: res.Attempted,
		Confirmed: res.Confirmed,
		Failed:    res.Failed,
		Records:   syncRecordsToDTO(res.Records),
	})
}
