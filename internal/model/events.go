package model

// EventType names an outbound or inbound gateway message
type EventType string

// Server -> client events
const (
	EvtRoomCreated    EventType = "roomCreated"
	EvtRoomJoined     EventType = "roomJoined"
	EvtPlayersUpdated EventType = "playersUpdated"
	EvtHostChanged    EventType = "hostChanged"
	EvtSettings       EventType = "settingsUpdated"
	EvtGameLoading    EventType = "gameLoading"
	EvtGameStarted    EventType = "gameStarted"
	EvtNewQuestion    EventType = "newQuestion"
	EvtAnswerAck      EventType = "answerAck"
	EvtFFACorrect     EventType = "ffaCorrect"
	EvtQuestionResult EventType = "questionResult"
	EvtInterimResults EventType = "interimResults"
	EvtGameOver       EventType = "gameOver"
	EvtError          EventType = "error"
)

// Client -> server events
const (
	CmdCreateRoom     EventType = "createRoom"
	CmdJoinRoom       EventType = "joinRoom"
	CmdUpdateSettings EventType = "updateSettings"
	CmdStartGame      EventType = "startGame"
	CmdSubmitAnswer   EventType = "submitAnswer"
	CmdLeaveRoom      EventType = "leaveRoom"
)

// TeamScores holds the summed score of each team
type TeamScores struct {
	Team1 int `json:"team1" bson:"team1"`
	Team2 int `json:"team2" bson:"team2"`
}

type RoomEnteredPayload struct {
	RoomCode string       `json:"roomCode"`
	IsHost   bool         `json:"isHost"`
	Players  []PlayerInfo `json:"players"`
	Settings RoomSettings `json:"settings"`
}

type PlayersUpdatedPayload struct {
	Players []PlayerInfo `json:"players"`
}

type HostChangedPayload struct {
	HostID string `json:"hostId"`
	Host   string `json:"host"`
}

type SettingsUpdatedPayload struct {
	Settings RoomSettings `json:"settings"`
}

type GameLoadingPayload struct {
	Message string `json:"message"`
}

type GameStartedPayload struct {
	YourTeam int      `json:"yourTeam,omitempty"`
	Mode     GameMode `json:"mode"`
}

type NewQuestionPayload struct {
	Question       PublicQuestion `json:"question"`
	QuestionNumber int            `json:"questionNumber"`
	TotalQuestions int            `json:"totalQuestions"`
	TimeLimit      int            `json:"timeLimit"` // seconds
	Mode           GameMode       `json:"mode"`
	TurnTeam       int            `json:"turnTeam,omitempty"`
	TeamScores     *TeamScores    `json:"teamScores,omitempty"`
}

type AnswerAckPayload struct {
	Correct bool `json:"correct"`
	Points  int  `json:"points"`
	Streak  int  `json:"streak"`
}

type FFACorrectPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
}

// PlayerAnswer is one player's line in a question result
type PlayerAnswer struct {
	Name     string `json:"name"`
	Answer   int    `json:"answer"`
	Answered bool   `json:"answered"`
	Correct  bool   `json:"correct"`
	Streak   int    `json:"streak"`
}

type QuestionResultPayload struct {
	QuestionNumber int                     `json:"questionNumber"`
	CorrectIndex   int                     `json:"correctIndex"`
	CorrectAnswer  string                  `json:"correctAnswer"`
	PlayerAnswers  map[string]PlayerAnswer `json:"playerAnswers"`
	Scores         map[string]int          `json:"scores"`
	TeamScores     *TeamScores             `json:"teamScores,omitempty"`
	Mode           GameMode                `json:"mode"`
}

type InterimResultsPayload struct {
	Players      []PlayerInfo `json:"players"`
	NextQuestion int          `json:"nextQuestion"`
}

// RankedPlayer is one row of the final standings
type RankedPlayer struct {
	Rank         int    `json:"rank" bson:"rank"`
	ID           string `json:"id" bson:"-"`
	Name         string `json:"name" bson:"name"`
	Score        int    `json:"score" bson:"score"`
	Team         int    `json:"team,omitempty" bson:"team,omitempty"`
	TotalCorrect int    `json:"totalCorrect" bson:"totalCorrect"`
}

// FinalResults is the gameOver payload
type FinalResults struct {
	Mode       GameMode       `json:"mode" bson:"mode"`
	Players    []RankedPlayer `json:"players" bson:"players"`
	TeamScores *TeamScores    `json:"teamScores,omitempty" bson:"teamScores,omitempty"`
	Winner     string         `json:"winner,omitempty" bson:"winner,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
