package memory

import (
	"context"
	"sync"
	"time"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps chat sessions in process memory. A ttl of zero keeps
// sessions forever; otherwise a session expires ttl after its last write.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration

	locksMu sync.Mutex
	locks   map[string]*sessionLock // only ids with a caller in flight
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 2
		if cleanup < time.Minute {
			cleanup = time.Minute
		}
	}
	return &SessionRepository{
		cache: cache.New(expiration, cleanup),
		ttl:   ttl,
		locks: make(map[string]*sessionLock),
	}
}

// lock serializes callers per id. The entry is dropped when the last holder or
// waiter releases it, so the table never outgrows the concurrent callers.
func (r *SessionRepository) lock(id string) func() {
	r.locksMu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sessionLock{}
		r.locks[id] = l
	}
	l.refs++
	r.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, id)
		}
		r.locksMu.Unlock()
	}
}

func (r *SessionRepository) lockCount() int {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	return len(r.locks)
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, id string) (*entity.ChatSession, bool, error) {
	unlock := r.lock(id)
	defer unlock()

	if session, found := r.load(id); found {
		return session, false, nil
	}

	now := time.Now()
	session := &entity.ChatSession{ID: id, Turns: []entity.ChatTurn{}, CreatedAt: now, UpdatedAt: now}
	r.cache.Set(id, session, cache.DefaultExpiration)
	return copySession(session), true, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*entity.ChatSession, error) {
	unlock := r.lock(id)
	defer unlock()

	session, _ := r.load(id)
	return session, nil
}

func (r *SessionRepository) Append(ctx context.Context, id, username string, turns ...entity.ChatTurn) error {
	unlock := r.lock(id)
	defer unlock()

	now := time.Now()
	var session *entity.ChatSession
	if x, found := r.cache.Get(id); found {
		session = x.(*entity.ChatSession)
	} else {
		session = &entity.ChatSession{ID: id, CreatedAt: now}
	}

	if username != "" {
		session.Username = username
	}
	session.Turns = append(session.Turns, turns...)
	session.UpdatedAt = now
	r.cache.Set(id, session, cache.DefaultExpiration)
	return nil
}

// load returns a copy so callers never share the stored slice.
func (r *SessionRepository) load(id string) (*entity.ChatSession, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	return copySession(x.(*entity.ChatSession)), true
}

func copySession(s *entity.ChatSession) *entity.ChatSession {
	c := *s
	c.Turns = append([]entity.ChatTurn(nil), s.Turns...)
	if c.Turns == nil {
		c.Turns = []entity.ChatTurn{}
	}
	return &c
}
