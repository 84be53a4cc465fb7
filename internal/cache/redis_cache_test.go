package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstorm/internal/model"
)

// redisClient returns a client for REDIS_TEST_ADDR or skips the test
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestQuestionCache_RoundTrip(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	c := NewQuestionCache(client, time.Minute)

	key := "test|" + t.Name()
	t.Cleanup(func() { client.Del(ctx, "questions:"+key) })

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	qs := []model.Question{{Text: "Which planet is largest?", Options: []string{"Mars", "Jupiter"}, CorrectIndex: 1}}
	require.NoError(t, c.Set(ctx, key, qs))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, qs, got)

	ttl, err := client.TTL(ctx, "questions:"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestLeaderboardCache_KeepsBestScore(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	lb := NewLeaderboardCache(client)

	topic := "Test Topic " + t.Name()
	t.Cleanup(func() { client.Del(ctx, "leaderboard:"+TopicKey(topic)) })

	require.NoError(t, lb.Record(ctx, topic, "alice", 300))
	require.NoError(t, lb.Record(ctx, topic, "alice", 100))
	require.NoError(t, lb.Record(ctx, topic, "bob", 200))

	top, err := lb.GetTop(ctx, topic, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, LeaderboardEntry{Name: "alice", Score: 300, Rank: 1}, top[0])
	assert.Equal(t, LeaderboardEntry{Name: "bob", Score: 200, Rank: 2}, top[1])
}

func TestTopicKey(t *testing.T) {
	assert.Equal(t, "world history", TopicKey("  World   History "))
}
