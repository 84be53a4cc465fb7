package repository

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"sync"

	"brainstorm/internal/model"
)

const (
	CodeLength      = 6
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxCodeAttempts = 64
)

var ErrCodeSpaceExhausted = errors.New("could not allocate a unique room code")

// RoomStore is the registry of live rooms and of which room each
// connection is in. It never locks a room while holding its own lock.
type RoomStore interface {
	// Create allocates an unused code, builds the room with newRoom and
	// registers it in one step
	Create(newRoom func(code string) *model.Room) (*model.Room, error)
	Get(code string) (*model.Room, bool)
	Delete(code string) bool
	Count() int
	List() []*model.Room

	Bind(connID, code string)
	Unbind(connID string)
	RoomOf(connID string) (string, bool)
}

type roomStore struct {
	mu    sync.RWMutex
	rooms map[string]*model.Room
	conns map[string]string // connection ID -> room code
	code  func() (string, error)
}

// NewRoomStore creates an empty in-memory room registry
func NewRoomStore() RoomStore {
	return newRoomStore(randomCode)
}

// NewRoomStoreWithCodes creates a registry that draws candidate codes from
// next instead of crypto/rand
func NewRoomStoreWithCodes(next func() (string, error)) RoomStore {
	return newRoomStore(next)
}

func newRoomStore(code func() (string, error)) *roomStore {
	return &roomStore{
		rooms: make(map[string]*model.Room),
		conns: make(map[string]string),
		code:  code,
	}
}

func (s *roomStore) Create(newRoom func(code string) *model.Room) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.code()
		if err != nil {
			return nil, err
		}
		if _, taken := s.rooms[code]; taken {
			continue
		}
		room := newRoom(code)
		s.rooms[code] = room
		return room, nil
	}
	return nil, ErrCodeSpaceExhausted
}

func (s *roomStore) Get(code string) (*model.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[code]
	return r, ok
}

// Delete removes the room and any connection bindings that still point at it
func (s *roomStore) Delete(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[code]; !ok {
		return false
	}
	delete(s.rooms, code)
	for conn, c := range s.conns {
		if c == code {
			delete(s.conns, conn)
		}
	}
	return true
}

func (s *roomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// List returns live rooms ordered by code
func (s *roomStore) List() []*model.Room {
	s.mu.RLock()
	out := make([]*model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (s *roomStore) Bind(connID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[connID] = code
}

func (s *roomStore) Unbind(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, connID)
}

func (s *roomStore) RoomOf(connID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.conns[connID]
	return code, ok
}

// randomCode draws CodeLength uppercase letters from crypto/rand
func randomCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, CodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}
