package handler

import (
	"errors"
	"log"
	"net/http"

	"brainstorm/internal/service"
)

// AdminHandler serves operator-only views of live and archived games
type AdminHandler struct {
	game *service.GameService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(game *service.GameService) *AdminHandler {
	return &AdminHandler{game: game}
}

// Rooms handles GET /v1/admin/rooms
func (h *AdminHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.game.Rooms()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

// Results handles GET /v1/admin/results?limit=N
func (h *AdminHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.game.RecentResults(r.Context(), parseLimit(r))
	if errors.Is(err, service.ErrArchiveDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		log.Printf("list results: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	writeJSON(w, http.StatusOK, results)
}
