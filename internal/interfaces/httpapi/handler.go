package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	"github.com/riskibarqy/pitch-booking/internal/infrastructure/notify"
	"github.com/riskibarqy/pitch-booking/internal/platform/cache"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
	"github.com/riskibarqy/pitch-booking/internal/usecase"
)

// NoticeFeed exposes recently emitted editor notifications.
type NoticeFeed interface {
	Recent() []notify.Notice
}

type Handler struct {
	editor     *usecase.LineupEditorService
	notices    NoticeFeed
	cacheStats func() cache.Stats
	logger     *logging.Logger
	validator  *validator.Validate
}

// NewHandler builds the HTTP handler set. notices and cacheStats are optional.
func NewHandler(
	editor *usecase.LineupEditorService,
	notices NoticeFeed,
	cacheStats func() cache.Stats,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		editor:     editor,
		notices:    notices,
		cacheStats: cacheStats,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	resp := healthDTO{Status: "ok"}
	if h.cacheStats != nil {
		stats := h.cacheStats()
		resp.Cache = &cacheStatsDTO{Hits: stats.Hits, Misses: stats.Misses, Entries: stats.Entries}
	}

	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNotifications")
	defer span.End()

	items := []notify.Notice{}
	if h.notices != nil {
		items = h.notices.Recent()
	}

	writeSuccess(ctx, w, http.StatusOK, itemsData[notify.Notice]{Items: items})
}

// UpdatePlayerTeam is the backend side of the persistence contract.
func (h *Handler) UpdatePlayerTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerTeam")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	var req teamUpdateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team := parseSide(req.Team)
	if err := h.editor.UpdatePlayerTeam(ctx, playerID, team); err != nil {
		h.logger.WarnContext(ctx, "update player team failed", "player_id", playerID, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseSide(raw string) lineup.Side {
	return lineup.Side(strings.ToUpper(strings.TrimSpace(raw)))
}
