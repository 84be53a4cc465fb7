package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstorm/internal/model"
)

func TestMemoryQuestionCache_HitWithinTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newMemoryQuestionCache(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	qs := []model.Question{{Text: "What is two plus two?", Options: []string{"3", "4"}, CorrectIndex: 1}}
	require.NoError(t, c.Set(ctx, "k", qs))

	now = now.Add(59 * time.Minute)
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, qs, got)
}

func TestMemoryQuestionCache_ExpiresLazily(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newMemoryQuestionCache(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []model.Question{{Text: "x"}}))
	now = now.Add(time.Hour)
	assert.Equal(t, 1, c.Len())

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryQuestionCache_Miss(t *testing.T) {
	c := NewMemoryQuestionCache(time.Hour)
	_, ok, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
