package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brainstorm/internal/model"
)

// QuestionCache stores generated question sets keyed by request
type QuestionCache interface {
	Get(ctx context.Context, key string) ([]model.Question, bool, error)
	Set(ctx context.Context, key string, questions []model.Question) error
}

type questionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuestionCache creates a Redis-backed question cache
func NewQuestionCache(client *redis.Client, ttl time.Duration) QuestionCache {
	return &questionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *questionCache) key(key string) string {
	return fmt.Sprintf("questions:%s", key)
}

func (c *questionCache) Get(ctx context.Context, key string) ([]model.Question, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var qs []model.Question
	if err := json.Unmarshal([]byte(data), &qs); err != nil {
		return nil, false, err
	}
	return qs, true, nil
}

func (c *questionCache) Set(ctx context.Context, key string, questions []model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}
