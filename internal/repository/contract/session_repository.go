package contract

import (
	"context"

	"smart-fridge-be/internal/entity"
)

// SessionRepository stores chat sessions. Ids are opaque; the store never invents
// or validates them.
type SessionRepository interface {
	GetOrCreate(ctx context.Context, id string) (session *entity.ChatSession, created bool, err error)
	// Get returns nil, nil when the session does not exist.
	Get(ctx context.Context, id string) (*entity.ChatSession, error)
	// Append adds turns atomically for the id. A non-empty username binds the session.
	Append(ctx context.Context, id, username string, turns ...entity.ChatTurn) error
}
