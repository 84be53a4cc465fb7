package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstorm/internal/content"
	"brainstorm/internal/model"
	"brainstorm/internal/repository"
	"brainstorm/internal/service"
)

type fakeGame struct {
	hub *Hub

	mu     sync.Mutex
	calls  []string
	answer int
	err    error
}

func (g *fakeGame) record(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	return g.err
}

func (g *fakeGame) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGame) CreateRoom(connID, name string) (string, error) {
	if err := g.record("create:" + name); err != nil {
		return "", err
	}
	g.hub.SendTo(connID, model.EvtRoomCreated, model.RoomEnteredPayload{RoomCode: "ABCDEF", IsHost: true})
	return "ABCDEF", nil
}

func (g *fakeGame) JoinRoom(connID, code, name string) error {
	return g.record("join:" + code + ":" + name)
}

func (g *fakeGame) UpdateSettings(connID string, u model.SettingsUpdate) error {
	topic := ""
	if u.Topic != nil {
		topic = *u.Topic
	}
	return g.record("settings:" + topic)
}

func (g *fakeGame) StartGame(connID string) error { return g.record("start") }

func (g *fakeGame) SubmitAnswer(connID string, index int) error {
	g.mu.Lock()
	g.answer = index
	g.mu.Unlock()
	return g.record("answer")
}

func (g *fakeGame) LeaveRoom(connID string) error { return g.record("leave:" + connID) }

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func send(t *testing.T, c *websocket.Conn, typ model.EventType, payload string) {
	t.Helper()
	msg := Message{Type: typ}
	if payload != "" {
		msg.Payload = json.RawMessage(payload)
	}
	require.NoError(t, c.WriteJSON(msg))
}

// expect reads until a message of typ arrives
func expect(t *testing.T, c *websocket.Conn, typ model.EventType) Message {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg Message
		require.NoError(t, c.ReadJSON(&msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func errorText(t *testing.T, msg Message) string {
	t.Helper()
	var p model.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	return p.Message
}

func newTestServer(t *testing.T, game func(*Hub) Game) (*httptest.Server, *Hub) {
	t.Helper()
	hub := NewHub()
	h := NewHandler(hub, game(hub))
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return srv, hub
}

func TestHandlerDispatchesCommands(t *testing.T) {
	game := &fakeGame{}
	srv, _ := newTestServer(t, func(h *Hub) Game { game.hub = h; return game })
	c := dial(t, srv)

	send(t, c, model.CmdCreateRoom, `{"playerName":"Alice"}`)
	created := expect(t, c, model.EvtRoomCreated)
	var entered model.RoomEnteredPayload
	require.NoError(t, json.Unmarshal(created.Payload, &entered))
	assert.Equal(t, "ABCDEF", entered.RoomCode)

	send(t, c, model.CmdJoinRoom, `{"roomCode":"abcdef","playerName":"Bob"}`)
	send(t, c, model.CmdUpdateSettings, `{"topic":"Rivers","questionCount":5}`)
	send(t, c, model.CmdStartGame, "")
	send(t, c, model.CmdSubmitAnswer, `{"answerIndex":2}`)

	assert.Eventually(t, func() bool { return len(game.Calls()) == 5 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"create:Alice", "join:abcdef:Bob", "settings:Rivers", "start", "answer"}, game.Calls())
	game.mu.Lock()
	assert.Equal(t, 2, game.answer)
	game.mu.Unlock()
}

func TestHandlerRejectsBadMessages(t *testing.T) {
	game := &fakeGame{}
	srv, _ := newTestServer(t, func(h *Hub) Game { game.hub = h; return game })
	c := dial(t, srv)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, ErrBadPayload.Error(), errorText(t, expect(t, c, model.EvtError)))

	send(t, c, "dance", "")
	assert.Contains(t, errorText(t, expect(t, c, model.EvtError)), "unknown message type")

	send(t, c, model.CmdSubmitAnswer, `{}`)
	assert.Equal(t, ErrBadPayload.Error(), errorText(t, expect(t, c, model.EvtError)))

	send(t, c, model.CmdSubmitAnswer, `{"answerIndex":"two"}`)
	assert.Contains(t, errorText(t, expect(t, c, model.EvtError)), "malformed message")
	assert.Empty(t, game.Calls())
}

func TestHandlerReportsServiceErrors(t *testing.T) {
	game := &fakeGame{err: service.ErrNotHost}
	srv, _ := newTestServer(t, func(h *Hub) Game { game.hub = h; return game })
	c := dial(t, srv)

	send(t, c, model.CmdStartGame, "")
	assert.Equal(t, service.ErrNotHost.Error(), errorText(t, expect(t, c, model.EvtError)))

	game.mu.Lock()
	game.err = errors.New("mongo exploded")
	game.mu.Unlock()
	send(t, c, model.CmdStartGame, "")
	assert.Equal(t, "something went wrong", errorText(t, expect(t, c, model.EvtError)))
}

func TestHandlerLeavesOnClose(t *testing.T) {
	game := &fakeGame{}
	srv, hub := newTestServer(t, func(h *Hub) Game { game.hub = h; return game })
	c := dial(t, srv)

	assert.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, c.Close())

	assert.Eventually(t, func() bool {
		for _, call := range game.Calls() {
			if strings.HasPrefix(call, "leave:") {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Count())
}

type staticQuestions struct{}

func (staticQuestions) Generate(_ context.Context, req content.Request) []model.Question {
	return []model.Question{{Text: "What is two plus two?", Options: []string{"3", "4"}, CorrectIndex: 1}}
}

func TestHandlerWithGameService(t *testing.T) {
	srv, _ := newTestServer(t, func(h *Hub) Game {
		return service.NewGameService(repository.NewRoomStore(), staticQuestions{}, h)
	})
	alice := dial(t, srv)
	bob := dial(t, srv)

	send(t, alice, model.CmdCreateRoom, `{"playerName":"Alice"}`)
	var created model.RoomEnteredPayload
	require.NoError(t, json.Unmarshal(expect(t, alice, model.EvtRoomCreated).Payload, &created))
	require.Len(t, created.RoomCode, repository.CodeLength)

	send(t, bob, model.CmdJoinRoom, `{"roomCode":"`+strings.ToLower(created.RoomCode)+`","playerName":"Bob"}`)
	var joined model.RoomEnteredPayload
	require.NoError(t, json.Unmarshal(expect(t, bob, model.EvtRoomJoined).Payload, &joined))
	assert.False(t, joined.IsHost)
	assert.Len(t, joined.Players, 2)

	var updated model.PlayersUpdatedPayload
	require.NoError(t, json.Unmarshal(expect(t, alice, model.EvtPlayersUpdated).Payload, &updated))
	assert.Len(t, updated.Players, 2)

	send(t, bob, model.CmdStartGame, "")
	assert.Equal(t, service.ErrNotHost.Error(), errorText(t, expect(t, bob, model.EvtError)))

	send(t, alice, model.CmdStartGame, "")
	var q model.NewQuestionPayload
	require.NoError(t, json.Unmarshal(expect(t, bob, model.EvtNewQuestion).Payload, &q))
	assert.Equal(t, "What is two plus two?", q.Question.Text)

	require.NoError(t, alice.Close())
	var host model.HostChangedPayload
	require.NoError(t, json.Unmarshal(expect(t, bob, model.EvtHostChanged).Payload, &host))
	assert.Equal(t, "Bob", host.Host)
}
