package model

import (
	"sort"
	"sync"
	"time"
)

type RoomState string

const (
	RoomWaiting  RoomState = "waiting"
	RoomPlaying  RoomState = "playing"
	RoomFinished RoomState = "finished"
)

// Room is one game session. All fields are guarded by the room lock; callers
// hold Lock for the whole of any read-modify-write sequence.
type Room struct {
	mu sync.Mutex

	Code      string
	HostID    string
	Settings  RoomSettings
	State     RoomState
	CreatedAt time.Time
	StartedAt time.Time

	Questions     []Question
	CurrentIndex  int
	QuestionStart time.Time
	TurnTeam      int
	FirstCorrect  string // ffa only, connection ID of the first correct answer

	// Loading is set while questions are being generated for a start request.
	Loading bool
	// AcceptingAnswers is true between emitting a question and resolving it.
	AcceptingAnswers bool

	players map[string]*Player
	order   []string
}

// NewRoom creates an empty waiting room
func NewRoom(code string, now time.Time) *Room {
	return &Room{
		Code:      code,
		Settings:  DefaultRoomSettings(),
		State:     RoomWaiting,
		CreatedAt: now,
		TurnTeam:  1,
		players:   make(map[string]*Player),
	}
}

func (r *Room) Lock()   { r.mu.Lock() }
func (r *Room) Unlock() { r.mu.Unlock() }

// AddPlayer adds a player; the first player becomes host
func (r *Room) AddPlayer(id, name string) *Player {
	if p, ok := r.players[id]; ok {
		p.Name = name
		return p
	}
	p := NewPlayer(id, name)
	r.players[id] = p
	r.order = append(r.order, id)
	if r.HostID == "" {
		r.HostID = id
	}
	return p
}

// RemovePlayer drops the player and moves host ownership to the earliest
// remaining player when needed. It reports whether the host changed.
func (r *Room) RemovePlayer(id string) (removed, hostChanged bool) {
	if _, ok := r.players[id]; !ok {
		return false, false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.HostID == id {
		r.HostID = ""
		if len(r.order) > 0 {
			r.HostID = r.order[0]
			hostChanged = true
		}
	}
	return true, hostChanged
}

// Player looks up a player by connection ID
func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Players returns players in join order
func (r *Room) Players() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// PlayerIDs returns connection IDs in join order
func (r *Room) PlayerIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Room) PlayerCount() int { return len(r.order) }

func (r *Room) IsHost(id string) bool { return id != "" && r.HostID == id }

// PlayerList returns the lobby view of all players
func (r *Room) PlayerList() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r.order))
	for _, p := range r.Players() {
		out = append(out, PlayerInfo{
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Score,
			Team:         p.Team,
			IsHost:       p.ID == r.HostID,
			TotalCorrect: p.TotalCorrect,
		})
	}
	return out
}

// AssignTeams shuffles the players with shuffle and alternates them between
// team 1 and team 2. Team 1 takes the first turn.
func (r *Room) AssignTeams(shuffle func(n int, swap func(i, j int))) {
	ids := r.PlayerIDs()
	if shuffle != nil {
		shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	for i, id := range ids {
		r.players[id].Team = 1 + i%2
	}
	r.TurnTeam = 1
}

// TeamScores sums player scores per team
func (r *Room) TeamScores() TeamScores {
	var ts TeamScores
	for _, p := range r.players {
		switch p.Team {
		case 1:
			ts.Team1 += p.Score
		case 2:
			ts.Team2 += p.Score
		}
	}
	return ts
}

// CurrentQuestion returns the question being played, or nil once exhausted
func (r *Room) CurrentQuestion() *Question {
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(r.Questions) {
		return nil
	}
	return &r.Questions[r.CurrentIndex]
}

// ResetAnswers clears per-question state for every player
func (r *Room) ResetAnswers() {
	for _, p := range r.players {
		p.ResetAnswer()
	}
	r.FirstCorrect = ""
}

// Eligible reports whether p may answer the current question
func (r *Room) Eligible(p *Player) bool {
	if r.Settings.Mode == ModeTeam {
		return p.Team == r.TurnTeam
	}
	return true
}

// AllAnswered reports whether every eligible player has answered. A round
// with no eligible players counts as fully answered.
func (r *Room) AllAnswered() bool {
	for _, p := range r.players {
		if r.Eligible(p) && !p.Answered {
			return false
		}
	}
	return true
}

// RoundComplete is the mode-aware resolution condition
func (r *Room) RoundComplete() bool {
	if r.Settings.Mode == ModeFFA && r.FirstCorrect != "" {
		return true
	}
	return r.AllAnswered()
}

// Advance moves to the next question, flipping the turn in team mode. It
// returns false and marks the room finished when questions are exhausted.
func (r *Room) Advance() bool {
	if r.Settings.Mode == ModeTeam {
		if r.TurnTeam == 1 {
			r.TurnTeam = 2
		} else {
			r.TurnTeam = 1
		}
	}
	r.AcceptingAnswers = false
	r.CurrentIndex++
	if r.CurrentIndex >= len(r.Questions) {
		r.CurrentIndex = len(r.Questions)
		r.State = RoomFinished
		return false
	}
	r.ResetAnswers()
	return true
}

// Standings ranks players by score, highest first. Ties keep join order.
func (r *Room) Standings() []*Player {
	ps := r.Players()
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Score > ps[j].Score })
	return ps
}

// FinalResults builds the game-over payload
func (r *Room) FinalResults() FinalResults {
	out := FinalResults{Mode: r.Settings.Mode}
	for i, p := range r.Standings() {
		out.Players = append(out.Players, RankedPlayer{
			Rank:         i + 1,
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Score,
			Team:         p.Team,
			TotalCorrect: p.TotalCorrect,
		})
	}
	if r.Settings.Mode == ModeTeam {
		ts := r.TeamScores()
		out.TeamScores = &ts
		switch {
		case ts.Team1 > ts.Team2:
			out.Winner = "team1"
		case ts.Team2 > ts.Team1:
			out.Winner = "team2"
		default:
			out.Winner = "draw"
		}
	}
	return out
}

// RoomSummary is the public lobby view served over HTTP
type RoomSummary struct {
	Code        string       `json:"code"`
	State       RoomState    `json:"state"`
	Loading     bool         `json:"loading"`
	PlayerCount int          `json:"playerCount"`
	Settings    RoomSettings `json:"settings"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Summary returns the public view of the room
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		Code:        r.Code,
		State:       r.State,
		Loading:     r.Loading,
		PlayerCount: len(r.order),
		Settings:    r.Settings,
		CreatedAt:   r.CreatedAt,
	}
}
