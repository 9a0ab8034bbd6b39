package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) DragStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DragStart")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req dragStartRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.editor.DragStart(ctx, lineupID, req.PlayerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dragToDTO(state))
}

func (h *Handler) DragOver(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DragOver")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req dragOverRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.editor.DragOver(ctx, lineupID, req.OverID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dragToDTO(state))
}

// DragEnd accepts an empty body; the ids tracked by start/over are used then.
func (h *Handler) DragEnd(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DragEnd")
	defer span.End()

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req dragEndRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.editor.DragEnd(ctx, lineupID, req.ActiveID, req.OverID)
	if err != nil {
		h.logger.WarnContext(ctx, "drag end failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, moveToDTO(out))
}
