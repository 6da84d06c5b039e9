// Package redisstore keeps chat sessions in Redis so they survive restarts.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "fridge:session:"

// SessionRepository stores a hash of session metadata and a list of JSON turns.
// Appends go through MULTI/EXEC so the turns of one call land contiguously.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func metaKey(id string) string  { return keyPrefix + id + ":meta" }
func turnsKey(id string) string { return keyPrefix + id + ":turns" }

func (r *SessionRepository) GetOrCreate(ctx context.Context, id string) (*entity.ChatSession, bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var created *redis.BoolCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.HSetNX(ctx, metaKey(id), "created_at", now)
		pipe.HSetNX(ctx, metaKey(id), "updated_at", now)
		r.touch(ctx, pipe, id)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis create session: %w", err)
	}

	session, err := r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return session, created.Val(), nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*entity.ChatSession, error) {
	var meta *redis.MapStringStringCmd
	var rawTurns *redis.StringSliceCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		meta = pipe.HGetAll(ctx, metaKey(id))
		rawTurns = pipe.LRange(ctx, turnsKey(id), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis load session: %w", err)
	}

	fields := meta.Val()
	if len(fields) == 0 {
		return nil, nil
	}

	session := &entity.ChatSession{
		ID:       id,
		Username: fields["username"],
		Turns:    make([]entity.ChatTurn, 0, len(rawTurns.Val())),
	}
	session.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	session.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields["updated_at"])

	for _, raw := range rawTurns.Val() {
		var t entity.ChatTurn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decode turn of session %s: %w", id, err)
		}
		session.Turns = append(session.Turns, t)
	}
	return session, nil
}

func (r *SessionRepository) Append(ctx context.Context, id, username string, turns ...entity.ChatTurn) error {
	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		values = append(values, raw)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, metaKey(id), "created_at", now)
		pipe.HSet(ctx, metaKey(id), "updated_at", now)
		if username != "" {
			pipe.HSet(ctx, metaKey(id), "username", username)
		}
		if len(values) > 0 {
			pipe.RPush(ctx, turnsKey(id), values...)
		}
		r.touch(ctx, pipe, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append session: %w", err)
	}
	return nil
}

// touch refreshes the expiry of both keys when a ttl is configured.
func (r *SessionRepository) touch(ctx context.Context, pipe redis.Pipeliner, id string) {
	if r.ttl <= 0 {
		return
	}
	pipe.Expire(ctx, metaKey(id), r.ttl)
	pipe.Expire(ctx, turnsKey(id), r.ttl)
}
