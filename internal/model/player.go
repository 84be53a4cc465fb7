package model

import "time"

// NoAnswer marks a player who let the question time out
const NoAnswer = -1

// Player represents one connected participant in a room
type Player struct {
	ID           string `json:"id"`   // connection ID
	Name         string `json:"name"`
	Score        int    `json:"score"`
	Team         int    `json:"team,omitempty"` // 0 = no team, otherwise 1 or 2
	Streak       int    `json:"streak"`
	TotalCorrect int    `json:"totalCorrect"`

	// Per-question state, reset before every question
	Answered    bool      `json:"-"`
	AnswerIndex int       `json:"-"`
	AnswerTime  time.Time `json:"-"`
}

// NewPlayer creates a player with a cleared answer slot
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, AnswerIndex: NoAnswer}
}

// ResetAnswer clears the per-question fields
func (p *Player) ResetAnswer() {
	p.Answered = false
	p.AnswerIndex = NoAnswer
	p.AnswerTime = time.Time{}
}

// PlayerInfo is the lobby/leaderboard view of a player
type PlayerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	Team         int    `json:"team,omitempty"`
	IsHost       bool   `json:"isHost"`
	TotalCorrect int    `json:"totalCorrect"`
}
