package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"brainstorm/internal/cache"
	"brainstorm/internal/content"
	"brainstorm/internal/model"
	"brainstorm/internal/repository"
)

const (
	ResultPause  = 3 * time.Second
	InterimPause = 5 * time.Second
	InterimEvery = 5

	DefaultPlayerName = "Player"
	MaxNameLength     = 24

	defaultGenerationTimeout = 45 * time.Second
	archiveTimeout           = 5 * time.Second
)

var (
	ErrArchiveDisabled     = errors.New("results archive is not configured")
	ErrLeaderboardDisabled = errors.New("leaderboard is not configured")
)

// QuestionSource produces the questions for a game. It must not fail; an
// empty result is reported to the room as a retryable error.
type QuestionSource interface {
	Generate(ctx context.Context, req content.Request) []model.Question
}

// GameService runs the room and question lifecycle. Every mutation of a
// room happens under that room's lock; timers and question generation run
// without it and re-validate the room before acting.
type GameService struct {
	rooms     repository.RoomStore
	questions QuestionSource
	bc        Broadcaster
	sched     Scheduler

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
	run     func(fn func())

	results     repository.ResultRepo  // optional
	leaderboard cache.LeaderboardCache // optional
	genTimeout  time.Duration
}

// Option configures a GameService
type Option func(*GameService)

func WithScheduler(s Scheduler) Option { return func(g *GameService) { g.sched = s } }

func WithClock(now func() time.Time) Option { return func(g *GameService) { g.now = now } }

// WithShuffle sets the team shuffle; nil keeps join order
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(g *GameService) { g.shuffle = shuffle }
}

// WithRunner sets how background work (generation, archiving) is started
func WithRunner(run func(fn func())) Option { return func(g *GameService) { g.run = run } }

func WithResultRepo(r repository.ResultRepo) Option { return func(g *GameService) { g.results = r } }

func WithLeaderboard(lb cache.LeaderboardCache) Option {
	return func(g *GameService) { g.leaderboard = lb }
}

func WithGenerationTimeout(d time.Duration) Option {
	return func(g *GameService) { g.genTimeout = d }
}

// NewGameService creates a new game service
func NewGameService(rooms repository.RoomStore, questions QuestionSource, bc Broadcaster, opts ...Option) *GameService {
	s := &GameService{
		rooms:      rooms,
		questions:  questions,
		bc:         bc,
		sched:      NewScheduler(),
		now:        time.Now,
		shuffle:    rand.Shuffle,
		run:        func(fn func()) { go fn() },
		genTimeout: defaultGenerationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRoom opens a new room with connID as host and returns its code
func (s *GameService) CreateRoom(connID, name string) (string, error) {
	s.leaveCurrent(connID)
	name = normalizeName(name)

	room, err := s.rooms.Create(func(code string) *model.Room {
		r := model.NewRoom(code, s.now())
		r.AddPlayer(connID, name)
		return r
	})
	if err != nil {
		return "", err
	}
	s.rooms.Bind(connID, room.Code)

	room.Lock()
	s.bc.SendTo(connID, model.EvtRoomCreated, enteredPayload(room, connID))
	room.Unlock()

	log.Printf("Room %s created by %s", room.Code, name)
	return room.Code, nil
}

// JoinRoom adds connID to the waiting room identified by code
func (s *GameService) JoinRoom(connID, code, name string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = normalizeName(name)

	room, ok := s.rooms.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Lock()
	_, already := room.Player(connID)
	if already {
		s.bc.SendTo(connID, model.EvtRoomJoined, enteredPayload(room, connID))
	}
	state := room.State
	room.Unlock()
	if already {
		return nil
	}
	if state != model.RoomWaiting {
		return ErrGameInProgress
	}

	s.leaveCurrent(connID)

	room.Lock()
	defer room.Unlock()
	if !s.live(room) {
		return ErrRoomNotFound
	}
	if room.State != model.RoomWaiting {
		return ErrGameInProgress
	}

	room.AddPlayer(connID, name)
	s.rooms.Bind(connID, code)

	s.bc.SendTo(connID, model.EvtRoomJoined, enteredPayload(room, connID))
	s.bc.SendToMany(room.PlayerIDs(), model.EvtPlayersUpdated, model.PlayersUpdatedPayload{Players: room.PlayerList()})

	log.Printf("Player %s joined room %s", name, code)
	return nil
}

// UpdateSettings applies a partial settings change from the host
func (s *GameService) UpdateSettings(connID string, u model.SettingsUpdate) error {
	room, err := s.roomOf(connID)
	if err != nil {
		return err
	}
	room.Lock()
	defer room.Unlock()

	if !s.live(room) {
		return ErrNotInRoom
	}
	if !room.IsHost(connID) {
		return ErrNotHost
	}
	if room.State != model.RoomWaiting || room.Loading {
		return ErrGameInProgress
	}
	settings, ok := room.Settings.Apply(u)
	if !ok {
		return ErrInvalidSettings
	}
	room.Settings = settings

	s.bc.SendToMany(room.PlayerIDs(), model.EvtSettings, model.SettingsUpdatedPayload{Settings: settings})
	return nil
}

// StartGame begins question generation for the host's room. The game
// itself starts once generation completes.
func (s *GameService) StartGame(connID string) error {
	room, err := s.roomOf(connID)
	if err != nil {
		return err
	}
	room.Lock()

	if !s.live(room) {
		room.Unlock()
		return ErrNotInRoom
	}
	if !room.IsHost(connID) {
		room.Unlock()
		return ErrNotHost
	}
	if room.State != model.RoomWaiting {
		room.Unlock()
		return ErrGameInProgress
	}
	if room.Loading {
		room.Unlock()
		return ErrAlreadyLoading
	}
	if room.PlayerCount() < 2 {
		room.Unlock()
		return ErrNotEnoughPlayers
	}

	room.Loading = true
	req := content.RequestFor(room.Settings)
	s.bc.SendToMany(room.PlayerIDs(), model.EvtGameLoading, model.GameLoadingPayload{
		Message: "Generating questions about " + req.Topic + "...",
	})
	room.Unlock()

	log.Printf("Room %s loading %d %s questions on %q", room.Code, req.Count, req.Difficulty, req.Topic)
	s.run(func() { s.loadQuestions(room, req) })
	return nil
}

func (s *GameService) loadQuestions(room *model.Room, req content.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), s.genTimeout)
	questions := s.questions.Generate(ctx, req)
	cancel()

	room.Lock()
	defer room.Unlock()

	room.Loading = false
	if !s.live(room) {
		log.Printf("Room %s closed while loading, discarding questions", room.Code)
		return
	}
	if room.State != model.RoomWaiting {
		return
	}
	ids := room.PlayerIDs()
	if len(questions) == 0 {
		s.bc.SendToMany(ids, model.EvtError, model.ErrorPayload{Message: "Could not generate questions. Please try again."})
		return
	}
	if room.PlayerCount() < 2 {
		s.bc.SendToMany(ids, model.EvtError, model.ErrorPayload{Message: ErrNotEnoughPlayers.Error()})
		return
	}

	room.Questions = questions
	if room.Settings.Mode == model.ModeTeam {
		room.AssignTeams(s.shuffle)
	} else {
		for _, p := range room.Players() {
			p.Team = 0
		}
	}
	room.State = model.RoomPlaying
	room.CurrentIndex = 0
	room.TurnTeam = 1
	room.StartedAt = s.now()
	room.ResetAnswers()

	for _, p := range room.Players() {
		s.bc.SendTo(p.ID, model.EvtGameStarted, model.GameStartedPayload{YourTeam: p.Team, Mode: room.Settings.Mode})
	}
	log.Printf("Room %s started with %d questions", room.Code, len(questions))
	s.emitQuestion(room)
}

// SubmitAnswer records connID's answer to the current question. Repeat and
// late submissions are ignored.
func (s *GameService) SubmitAnswer(connID string, index int) error {
	room, err := s.roomOf(connID)
	if err != nil {
		return err
	}
	room.Lock()
	defer room.Unlock()

	if !s.live(room) {
		return ErrNotInRoom
	}
	player, ok := room.Player(connID)
	if !ok {
		return ErrNotInRoom
	}
	if room.State != model.RoomPlaying {
		return ErrNotPlaying
	}
	if !room.AcceptingAnswers || player.Answered {
		return nil
	}
	if !room.Eligible(player) {
		return ErrNotYourTurn
	}
	q := room.CurrentQuestion()
	if q == nil {
		return nil
	}

	now := s.now()
	player.Answered = true
	player.AnswerIndex = index
	player.AnswerTime = now

	correct := index == q.CorrectIndex
	points := 0
	if correct {
		player.Streak++
		player.TotalCorrect++
		points = Score(room.Settings.Difficulty, now.Sub(room.QuestionStart), player.Streak)
		player.Score += points
	} else {
		player.Streak = 0
	}
	s.bc.SendTo(connID, model.EvtAnswerAck, model.AnswerAckPayload{Correct: correct, Points: points, Streak: player.Streak})

	if room.Settings.Mode == model.ModeFFA && correct && room.FirstCorrect == "" {
		room.FirstCorrect = connID
		s.bc.SendToMany(room.PlayerIDs(), model.EvtFFACorrect, model.FFACorrectPayload{
			PlayerID:   connID,
			PlayerName: player.Name,
			Points:     points,
		})
	}

	if room.RoundComplete() {
		s.resolveQuestion(room)
	}
	return nil
}

// LeaveRoom removes connID from its room. Disconnects call it too.
func (s *GameService) LeaveRoom(connID string) error {
	code, ok := s.rooms.RoomOf(connID)
	if !ok {
		return ErrNotInRoom
	}
	s.rooms.Unbind(connID)

	room, ok := s.rooms.Get(code)
	if !ok {
		return nil
	}

	room.Lock()
	defer room.Unlock()

	removed, hostChanged := room.RemovePlayer(connID)
	if !removed {
		return nil
	}
	if room.PlayerCount() == 0 {
		s.rooms.Delete(room.Code)
		log.Printf("Room %s closed", room.Code)
		return nil
	}

	ids := room.PlayerIDs()
	s.bc.SendToMany(ids, model.EvtPlayersUpdated, model.PlayersUpdatedPayload{Players: room.PlayerList()})
	if hostChanged {
		host, _ := room.Player(room.HostID)
		s.bc.SendToMany(ids, model.EvtHostChanged, model.HostChangedPayload{HostID: host.ID, Host: host.Name})
	}

	if room.State == model.RoomPlaying && room.AcceptingAnswers && room.RoundComplete() {
		s.resolveQuestion(room)
	}
	return nil
}

// emitQuestion shows the current question and arms its timeout. Caller
// holds the room lock.
func (s *GameService) emitQuestion(room *model.Room) {
	q := room.CurrentQuestion()
	if q == nil {
		return
	}
	room.QuestionStart = s.now()
	room.AcceptingAnswers = true

	payload := model.NewQuestionPayload{
		Question:       q.Public(),
		QuestionNumber: room.CurrentIndex + 1,
		TotalQuestions: len(room.Questions),
		TimeLimit:      int(QuestionTimeLimit.Seconds()),
		Mode:           room.Settings.Mode,
	}
	if room.Settings.Mode == model.ModeTeam {
		ts := room.TeamScores()
		payload.TurnTeam = room.TurnTeam
		payload.TeamScores = &ts
	}
	s.bc.SendToMany(room.PlayerIDs(), model.EvtNewQuestion, payload)

	code, idx := room.Code, room.CurrentIndex
	s.sched.After(QuestionTimeLimit+timeoutGrace, func() { s.timeoutQuestion(code, idx) })

	// A team turn with nobody left on the team has nothing to wait for.
	if room.RoundComplete() {
		s.resolveQuestion(room)
	}
}

func (s *GameService) timeoutQuestion(code string, idx int) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}
	room.Lock()
	defer room.Unlock()

	if !s.current(room, idx) || !room.AcceptingAnswers {
		return
	}
	now := s.now()
	for _, p := range room.Players() {
		if room.Eligible(p) && !p.Answered {
			p.Answered = true
			p.AnswerIndex = model.NoAnswer
			p.AnswerTime = now
			p.Streak = 0
		}
	}
	s.resolveQuestion(room)
}

// resolveQuestion publishes the result of the current question and
// schedules the next step. It runs at most once per question.
func (s *GameService) resolveQuestion(room *model.Room) {
	if !room.AcceptingAnswers {
		return
	}
	room.AcceptingAnswers = false

	q := room.CurrentQuestion()
	if q == nil {
		return
	}
	result := model.QuestionResultPayload{
		QuestionNumber: room.CurrentIndex + 1,
		CorrectIndex:   q.CorrectIndex,
		CorrectAnswer:  q.CorrectText(),
		PlayerAnswers:  make(map[string]model.PlayerAnswer, room.PlayerCount()),
		Scores:         make(map[string]int, room.PlayerCount()),
		Mode:           room.Settings.Mode,
	}
	for _, p := range room.Players() {
		result.PlayerAnswers[p.ID] = model.PlayerAnswer{
			Name:     p.Name,
			Answer:   p.AnswerIndex,
			Answered: p.Answered,
			Correct:  p.Answered && p.AnswerIndex == q.CorrectIndex,
			Streak:   p.Streak,
		}
		result.Scores[p.ID] = p.Score
	}
	if room.Settings.Mode == model.ModeTeam {
		ts := room.TeamScores()
		result.TeamScores = &ts
	}
	s.bc.SendToMany(room.PlayerIDs(), model.EvtQuestionResult, result)

	code, idx := room.Code, room.CurrentIndex
	s.sched.After(ResultPause, func() { s.afterResult(code, idx) })
}

func (s *GameService) afterResult(code string, idx int) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}
	room.Lock()
	defer room.Unlock()

	if !s.current(room, idx) || room.AcceptingAnswers {
		return
	}
	if !room.Advance() {
		s.finish(room)
		return
	}
	if room.CurrentIndex%InterimEvery == 0 {
		s.bc.SendToMany(room.PlayerIDs(), model.EvtInterimResults, model.InterimResultsPayload{
			Players:      ranked(room),
			NextQuestion: room.CurrentIndex + 1,
		})
		next := room.CurrentIndex
		s.sched.After(InterimPause, func() { s.emitAt(code, next) })
		return
	}
	s.emitQuestion(room)
}

func (s *GameService) emitAt(code string, idx int) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}
	room.Lock()
	defer room.Unlock()

	if !s.current(room, idx) || room.AcceptingAnswers {
		return
	}
	s.emitQuestion(room)
}

func (s *GameService) finish(room *model.Room) {
	results := room.FinalResults()
	s.bc.SendToMany(room.PlayerIDs(), model.EvtGameOver, results)
	log.Printf("Room %s finished", room.Code)

	if s.results == nil && s.leaderboard == nil {
		return
	}
	rec := &model.GameResult{
		RoomCode:    room.Code,
		Settings:    room.Settings,
		Questions:   len(room.Questions),
		Results:     results,
		StartedAt:   room.StartedAt,
		FinishedAt:  s.now(),
		PlayerCount: room.PlayerCount(),
	}
	s.run(func() { s.archive(rec) })
}

func (s *GameService) archive(rec *model.GameResult) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	if s.results != nil {
		if err := s.results.Save(ctx, rec); err != nil {
			log.Printf("archive room %s: %v", rec.RoomCode, err)
		}
	}
	if s.leaderboard != nil {
		for _, p := range rec.Results.Players {
			if err := s.leaderboard.Record(ctx, rec.Settings.Topic, p.Name, p.Score); err != nil {
				log.Printf("leaderboard room %s: %v", rec.RoomCode, err)
				break
			}
		}
	}
}

// Room returns the public summary of a live room
func (s *GameService) Room(code string) (model.RoomSummary, bool) {
	room, ok := s.rooms.Get(strings.ToUpper(strings.TrimSpace(code)))
	if !ok {
		return model.RoomSummary{}, false
	}
	room.Lock()
	defer room.Unlock()
	return room.Summary(), true
}

// Rooms returns summaries of every live room
func (s *GameService) Rooms() []model.RoomSummary {
	rooms := s.rooms.List()
	out := make([]model.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.Lock()
		out = append(out, r.Summary())
		r.Unlock()
	}
	return out
}

func (s *GameService) RoomCount() int { return s.rooms.Count() }

// RecentResults lists archived games, newest first
func (s *GameService) RecentResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	if s.results == nil {
		return nil, ErrArchiveDisabled
	}
	return s.results.ListRecent(ctx, limit)
}

// Leaderboard returns the best recorded scores for a topic
func (s *GameService) Leaderboard(ctx context.Context, topic string, limit int) ([]cache.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return nil, ErrLeaderboardDisabled
	}
	return s.leaderboard.GetTop(ctx, topic, limit)
}

func (s *GameService) roomOf(connID string) (*model.Room, error) {
	code, ok := s.rooms.RoomOf(connID)
	if !ok {
		return nil, ErrNotInRoom
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return nil, ErrNotInRoom
	}
	return room, nil
}

func (s *GameService) leaveCurrent(connID string) {
	if _, ok := s.rooms.RoomOf(connID); ok {
		_ = s.LeaveRoom(connID)
	}
}

// live reports whether room is still the registered room for its code
func (s *GameService) live(room *model.Room) bool {
	r, ok := s.rooms.Get(room.Code)
	return ok && r == room
}

// current is the stale-callback guard: the room is still registered, in
// play and on question idx
func (s *GameService) current(room *model.Room, idx int) bool {
	return s.live(room) && room.State == model.RoomPlaying && room.CurrentIndex == idx
}

func enteredPayload(room *model.Room, connID string) model.RoomEnteredPayload {
	return model.RoomEnteredPayload{
		RoomCode: room.Code,
		IsHost:   room.IsHost(connID),
		Players:  room.PlayerList(),
		Settings: room.Settings,
	}
}

// ranked returns the player list ordered by score
func ranked(room *model.Room) []model.PlayerInfo {
	standings := room.Standings()
	out := make([]model.PlayerInfo, 0, len(standings))
	for _, p := range standings {
		out = append(out, model.PlayerInfo{
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Score,
			Team:         p.Team,
			IsHost:       room.IsHost(p.ID),
			TotalCorrect: p.TotalCorrect,
		})
	}
	return out
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayerName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	return name
}
