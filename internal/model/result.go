package model

import "time"

// GameResult is the archived record of a finished game
type GameResult struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	RoomCode    string       `json:"roomCode" bson:"roomCode"`
	Settings    RoomSettings `json:"settings" bson:"settings"`
	Questions   int          `json:"questions" bson:"questions"`
	Results     FinalResults `json:"results" bson:"results"`
	StartedAt   time.Time    `json:"startedAt" bson:"startedAt"`
	FinishedAt  time.Time    `json:"finishedAt" bson:"finishedAt"`
	PlayerCount int          `json:"playerCount" bson:"playerCount"`
}
