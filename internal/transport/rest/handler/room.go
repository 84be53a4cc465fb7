package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"brainstorm/internal/service"
)

const (
	qrSize           = 320
	defaultListLimit = 10
	maxListLimit     = 100
)

// RoomHandler serves the public room and leaderboard endpoints
type RoomHandler struct {
	game      *service.GameService
	publicURL string
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(game *service.GameService, publicURL string) *RoomHandler {
	return &RoomHandler{
		game:      game,
		publicURL: publicURL,
	}
}

// Get handles GET /v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, ok := h.game.Room(code)
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrRoomNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// QR handles GET /v1/rooms/{code}/qr.png with a code for the join URL
func (h *RoomHandler) QR(w http.ResponseWriter, r *http.Request) {
	room, ok := h.game.Room(mux.Vars(r)["code"])
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrRoomNotFound.Error())
		return
	}

	png, err := qrcode.Encode(JoinURL(h.publicURL, room.Code), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("qr for room %s: %v", room.Code, err)
		writeError(w, http.StatusInternalServerError, "qr generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// Leaderboard handles GET /v1/leaderboard?topic=&limit=
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	entries, err := h.game.Leaderboard(r.Context(), topic, parseLimit(r))
	if errors.Is(err, service.ErrLeaderboardDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		log.Printf("leaderboard %q: %v", topic, err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic":   topic,
		"entries": entries,
	})
}

// JoinURL is the link encoded in a room's QR code
func JoinURL(publicURL, code string) string {
	return publicURL + "/?room=" + url.QueryEscape(code)
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
