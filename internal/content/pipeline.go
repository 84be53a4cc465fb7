package content

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"brainstorm/internal/cache"
	"brainstorm/internal/model"
)

var (
	ErrEmptyResponse  = errors.New("empty response from upstream")
	ErrUnparseable    = errors.New("upstream response could not be parsed")
	ErrNoUsable       = errors.New("upstream returned no usable questions")
	errNotObject      = errors.New("not a JSON object")
	errNoQuestionList = errors.New("no question list in object")
)

// Generator completes a prompt with raw text. Implementations talk to an
// upstream language model.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Request describes a batch of questions to produce
type Request struct {
	Topic       string
	Count       int
	Difficulty  model.Difficulty
	OptionCount int
}

// RequestFor builds a request from room settings
func RequestFor(s model.RoomSettings) Request {
	return Request{
		Topic:       s.Topic,
		Count:       s.QuestionCount,
		Difficulty:  s.Difficulty,
		OptionCount: s.OptionCount,
	}
}

func (r Request) normalize() Request {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		r.Topic = model.DefaultTopic
	}
	if r.Count < model.MinQuestionCount {
		r.Count = model.MinQuestionCount
	}
	if r.Count > model.MaxQuestionCount {
		r.Count = model.MaxQuestionCount
	}
	if r.OptionCount < model.MinOptionCount {
		r.OptionCount = model.MinOptionCount
	}
	if r.OptionCount > model.MaxOptionCount {
		r.OptionCount = model.MaxOptionCount
	}
	if !r.Difficulty.Valid() {
		r.Difficulty = model.DifficultyMedium
	}
	return r
}

// Key identifies a request in the question cache
func (r Request) Key() string {
	return fmt.Sprintf("%s|%d|%s|%d", r.Topic, r.Count, r.Difficulty, r.OptionCount)
}

// Pipeline turns a Request into a validated question list. It never fails:
// when the upstream is missing, errors or returns nothing usable, the
// built-in bank is served instead.
type Pipeline struct {
	gen    Generator           // nil when no upstream is configured
	cache  cache.QuestionCache // nil disables caching
	group  singleflight.Group
	tracer trace.Tracer

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRand fixes the random source used to sample the fallback bank
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) { p.rng = rng }
}

// NewPipeline creates a new question pipeline
func NewPipeline(gen Generator, qc cache.QuestionCache, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:    gen,
		cache:  qc,
		tracer: otel.Tracer("brainstorm/content"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate returns between 1 and req.Count questions, each with exactly
// req.OptionCount options. Fallback output always has exactly req.Count.
func (p *Pipeline) Generate(ctx context.Context, req Request) []model.Question {
	req = req.normalize()
	key := req.Key()

	ctx, span := p.tracer.Start(ctx, "content.Generate", trace.WithAttributes(
		attribute.String("topic", req.Topic),
		attribute.Int("count", req.Count),
		attribute.String("difficulty", string(req.Difficulty)),
		attribute.Int("options", req.OptionCount),
	))
	defer span.End()

	if p.cache != nil {
		qs, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			log.Printf("content: cache get %q: %v", key, err)
		}
		if ok && len(qs) > 0 {
			span.SetAttributes(attribute.String("source", "cache"))
			return cloneQuestions(qs)
		}
	}

	// Joined callers wait on this call; it ignores the starting caller's cancel.
	shared := context.WithoutCancel(ctx)
	v, _, _ := p.group.Do(key, func() (interface{}, error) {
		return p.produce(shared, req, key), nil
	})
	res := v.(generated)
	if res.err != nil {
		span.RecordError(res.err)
		span.SetStatus(codes.Error, res.err.Error())
	}
	span.SetAttributes(attribute.String("source", res.source))
	return cloneQuestions(res.questions)
}

type generated struct {
	questions []model.Question
	source    string
	err       error // upstream failure behind a fallback result
}

// produce asks the upstream and caches its result, falling back to the
// built-in bank when there is no upstream or it fails
func (p *Pipeline) produce(ctx context.Context, req Request, key string) generated {
	if p.gen == nil {
		return generated{questions: p.fallback(req), source: "fallback"}
	}
	qs, err := p.fromUpstream(ctx, req)
	if err != nil {
		log.Printf("content: upstream failed for %q, using fallback: %v", req.Topic, err)
		return generated{questions: p.fallback(req), source: "fallback", err: err}
	}
	if p.cache != nil {
		if err := p.cache.Set(ctx, key, qs); err != nil {
			log.Printf("content: cache set %q: %v", key, err)
		}
	}
	return generated{questions: qs, source: "upstream"}
}

func (p *Pipeline) fromUpstream(ctx context.Context, req Request) ([]model.Question, error) {
	raw, err := p.gen.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}
	items, ok := Parse(raw)
	if !ok {
		return nil, ErrUnparseable
	}
	if FixIndexing(items, req.OptionCount) {
		log.Printf("content: shifted 1-based answers for %q", req.Topic)
	}

	out := make([]model.Question, 0, len(items))
	for _, it := range items {
		q, ok := Repair(it, req.OptionCount)
		if !ok {
			continue
		}
		out = append(out, q)
		if len(out) == req.Count {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoUsable
	}
	if dropped := len(items) - len(out); dropped > 0 && len(out) < req.Count {
		log.Printf("content: kept %d of %d questions for %q", len(out), len(items), req.Topic)
	}
	return out, nil
}

func (p *Pipeline) fallback(req Request) []model.Question {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Fallback(req.Count, req.OptionCount, p.rng)
}

func cloneQuestions(qs []model.Question) []model.Question {
	out := make([]model.Question, len(qs))
	for i, q := range qs {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		out[i] = model.Question{Text: q.Text, Options: opts, CorrectIndex: q.CorrectIndex}
	}
	return out
}
