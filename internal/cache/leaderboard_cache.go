package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps the best score per player name for each topic in a
// Redis ZSET
type LeaderboardCache interface {
	Record(ctx context.Context, topic, name string, score int) error
	GetTop(ctx context.Context, topic string, limit int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(topic string) string {
	return fmt.Sprintf("leaderboard:%s", TopicKey(topic))
}

// TopicKey normalizes a topic for use in a leaderboard key
func TopicKey(topic string) string {
	return strings.ToLower(strings.Join(strings.Fields(topic), " "))
}

// Record stores score for name unless a higher one is already recorded
func (c *leaderboardCache) Record(ctx context.Context, topic, name string, score int) error {
	return c.client.ZAddGT(ctx, c.key(topic), redis.Z{
		Score:  float64(score),
		Member: name,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, topic string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(topic), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		name, _ := z.Member.(string)
		entries[i] = LeaderboardEntry{
			Name:  name,
			Score: int(z.Score),
			Rank:  i + 1,
		}
	}
	return entries, nil
}
