package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/notifications", handler.ListNotifications)
}

func registerLineupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/lineups", handler.ListLineups)
	mux.HandleFunc("POST /v1/lineups/reload", handler.ReloadLineups)
	mux.HandleFunc("GET /v1/lineups/{lineupID}", handler.GetLineup)
	mux.HandleFunc("POST /v1/lineups/{lineupID}/reorder", handler.ReorderLineupPlayer)
	mux.HandleFunc("POST /v1/lineups/{lineupID}/transfer", handler.TransferLineupPlayer)
	mux.HandleFunc("POST /v1/lineups/{lineupID}/undo", handler.UndoLineup)
	mux.HandleFunc("GET /v1/lineups/{lineupID}/history", handler.ListLineupHistory)
	mux.HandleFunc("GET /v1/lineups/{lineupID}/sync", handler.GetLineupSync)
	mux.HandleFunc("POST /v1/lineups/{lineupID}/sync/retry", handler.RetryLineupSync)
}

func registerDragRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/lineups/{lineupID}/drag/start", handler.DragStart)
	mux.HandleFunc("POST /v1/lineups/{lineupID}/drag/over", handler.DragOver)
	mux.HandleFunc("POST /v1/lineups/{lineupID}/drag/end", handler.DragEnd)
}

func registerBackendRoutes(mux *http.ServeMux, handler *Handler, serviceToken string) {
	mux.Handle("PATCH /v1/players/{playerID}/team", RequireServiceToken(serviceToken, http.HandlerFunc(handler.UpdatePlayerTeam)))
}
