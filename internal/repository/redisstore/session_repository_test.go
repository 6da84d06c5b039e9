package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"smart-fridge-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("Skipping redis test: REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	repo := NewSessionRepository(rdb, time.Minute)
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, metaKey(id), turnsKey(id)) })

	missing, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, created, err := repo.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.True(t, created)

	now := time.Now().UTC()
	require.NoError(t, repo.Append(ctx, id, "alice",
		entity.ChatTurn{Role: "user", Content: "what is in my fridge?", Timestamp: now},
		entity.ChatTurn{Role: "assistant", Content: "milk", Timestamp: now},
	))

	session, created, err := repo.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "alice", session.Username)
	require.Len(t, session.Turns, 2)
	assert.Equal(t, "milk", session.Turns[1].Content)

	ttl, err := rdb.TTL(ctx, turnsKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
