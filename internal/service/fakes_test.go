package service

import (
	"context"
	"sync"
	"time"

	"brainstorm/internal/cache"
	"brainstorm/internal/content"
	"brainstorm/internal/model"
)

// fakeTimers is a manual clock and scheduler. Advance runs due callbacks in
// time order with the clock set to each callback's due time.
type fakeTimers struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []timerTask
}

type timerTask struct {
	at  time.Time
	seq int
	fn  func()
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeTimers) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTimers) After(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.tasks = append(f.tasks, timerTask{at: f.now.Add(d), seq: f.seq, fn: fn})
}

func (f *fakeTimers) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

func (f *fakeTimers) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		next := -1
		for i, t := range f.tasks {
			if t.at.After(target) {
				continue
			}
			if next < 0 || t.at.Before(f.tasks[next].at) ||
				(t.at.Equal(f.tasks[next].at) && t.seq < f.tasks[next].seq) {
				next = i
			}
		}
		if next < 0 {
			break
		}
		task := f.tasks[next]
		f.tasks = append(f.tasks[:next], f.tasks[next+1:]...)
		f.now = task.at
		f.mu.Unlock()
		task.fn()
		f.mu.Lock()
	}
	f.now = target
	f.mu.Unlock()
}

type sentMessage struct {
	to      string
	typ     model.EventType
	payload interface{}
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (b *fakeBroadcaster) SendTo(connID string, typ model.EventType, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{to: connID, typ: typ, payload: payload})
}

func (b *fakeBroadcaster) SendToMany(connIDs []string, typ model.EventType, payload interface{}) {
	for _, id := range connIDs {
		b.SendTo(id, typ, payload)
	}
}

// To returns the payloads of typ delivered to connID, oldest first
func (b *fakeBroadcaster) To(connID string, typ model.EventType) []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []interface{}
	for _, m := range b.sent {
		if m.to == connID && m.typ == typ {
			out = append(out, m.payload)
		}
	}
	return out
}

func (b *fakeBroadcaster) Count(connID string, typ model.EventType) int {
	return len(b.To(connID, typ))
}

func (b *fakeBroadcaster) Last(connID string, typ model.EventType) interface{} {
	msgs := b.To(connID, typ)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func (b *fakeBroadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
}

// fixedQuestions serves count questions whose correct answer is always
// option 1
type fixedQuestions struct {
	mu       sync.Mutex
	requests []content.Request
	empty    bool
}

func (f *fixedQuestions) Generate(_ context.Context, req content.Request) []model.Question {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.empty {
		return nil
	}
	qs := make([]model.Question, req.Count)
	for i := range qs {
		qs[i] = model.Question{
			Text:         "Which option is the right one?",
			Options:      []string{"zero", "one", "two", "three"}[:req.OptionCount],
			CorrectIndex: 1,
		}
	}
	return qs
}

type fakeResultRepo struct {
	mu    sync.Mutex
	saved []*model.GameResult
}

func (r *fakeResultRepo) Save(_ context.Context, res *model.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, res)
	return nil
}

func (r *fakeResultRepo) ListRecent(_ context.Context, limit int) ([]model.GameResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.GameResult, 0, len(r.saved))
	for i := len(r.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.saved[i])
	}
	return out, nil
}

type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[string]int
}

func (l *fakeLeaderboard) Record(_ context.Context, topic, name string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.scores == nil {
		l.scores = make(map[string]int)
	}
	key := topic + "/" + name
	if score > l.scores[key] {
		l.scores[key] = score
	}
	return nil
}

func (l *fakeLeaderboard) GetTop(_ context.Context, topic string, limit int) ([]cache.LeaderboardEntry, error) {
	return nil, nil
}
