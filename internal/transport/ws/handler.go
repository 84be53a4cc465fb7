package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"brainstorm/internal/model"
	"brainstorm/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var (
	ErrBadPayload  = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Game is the subset of the game service driven by socket commands
type Game interface {
	CreateRoom(connID, name string) (string, error)
	JoinRoom(connID, code, name string) error
	UpdateSettings(connID string, u model.SettingsUpdate) error
	StartGame(connID string) error
	SubmitAnswer(connID string, index int) error
	LeaveRoom(connID string) error
}

// Handler handles WebSocket connections
type Handler struct {
	hub  *Hub
	game Game
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, game Game) *Handler {
	return &Handler{
		hub:  hub,
		game: game,
	}
}

type createRoomPayload struct {
	PlayerName string `json:"playerName"`
}

type joinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type submitAnswerPayload struct {
	AnswerIndex *int `json:"answerIndex"`
}

// ServeWS handles GET /v1/ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		ID:   uuid.New().String(),
		Send: make(chan []byte, sendBuffer),
	}
	h.hub.Register(conn)

	log.Printf("Connection %s opened from %s", conn.ID, r.RemoteAddr)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		if err := h.game.LeaveRoom(conn.ID); err != nil && !errors.Is(err, service.ErrNotInRoom) {
			log.Printf("leave on close %s: %v", conn.ID, err)
		}
		wsConn.Close()
		log.Printf("Connection %s closed", conn.ID)
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reject(conn.ID, ErrBadPayload)
			continue
		}
		if err := h.dispatch(conn.ID, msg); err != nil {
			h.reject(conn.ID, err)
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes one inbound command to the game service
func (h *Handler) dispatch(connID string, msg Message) error {
	switch msg.Type {
	case model.CmdCreateRoom:
		var p createRoomPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, err := h.game.CreateRoom(connID, p.PlayerName)
		return err

	case model.CmdJoinRoom:
		var p joinRoomPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		return h.game.JoinRoom(connID, p.RoomCode, p.PlayerName)

	case model.CmdUpdateSettings:
		var u model.SettingsUpdate
		if err := decodePayload(msg.Payload, &u); err != nil {
			return err
		}
		return h.game.UpdateSettings(connID, u)

	case model.CmdStartGame:
		return h.game.StartGame(connID)

	case model.CmdSubmitAnswer:
		var p submitAnswerPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		if p.AnswerIndex == nil {
			return ErrBadPayload
		}
		return h.game.SubmitAnswer(connID, *p.AnswerIndex)

	case model.CmdLeaveRoom:
		return h.game.LeaveRoom(connID)
	}
	return fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
}

// reject reports a failed command back to its sender
func (h *Handler) reject(connID string, err error) {
	msg := err.Error()
	switch {
	case service.IsUserError(err):
	case errors.Is(err, ErrBadPayload), errors.Is(err, ErrUnknownType):
	default:
		log.Printf("command from %s failed: %v", connID, err)
		msg = "something went wrong"
	}
	h.hub.SendTo(connID, model.EvtError, model.ErrorPayload{Message: msg})
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}
