package cache

import (
	"context"
	"sync"
	"time"

	"brainstorm/internal/model"
)

type memoryEntry struct {
	questions []model.Question
	storedAt  time.Time
}

type memoryQuestionCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryQuestionCache creates an in-process question cache. Expired
// entries are evicted when they are next looked up.
func NewMemoryQuestionCache(ttl time.Duration) QuestionCache {
	return newMemoryQuestionCache(ttl, time.Now)
}

func newMemoryQuestionCache(ttl time.Duration, now func() time.Time) *memoryQuestionCache {
	return &memoryQuestionCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *memoryQuestionCache) Get(_ context.Context, key string) ([]model.Question, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.questions, true, nil
}

func (c *memoryQuestionCache) Set(_ context.Context, key string, questions []model.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{questions: questions, storedAt: c.now()}
	return nil
}

// Len reports the number of stored entries, expired or not
func (c *memoryQuestionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
