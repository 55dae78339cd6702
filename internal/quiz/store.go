package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL bounds how long an unfinished session is kept.
const DefaultSessionTTL = 2 * time.Hour

const maxUpdateAttempts = 5

var (
	ErrSessionNotFound = errors.New("quiz: session not found")
	ErrSessionBusy     = errors.New("quiz: session modified concurrently")
)

// SessionStore persists sessions per owner. Update applies fn atomically
// with respect to other Updates of the same session.
type SessionStore interface {
	Create(ctx context.Context, owner string, s *Session) error
	Get(ctx context.Context, owner, id string) (*Session, error)
	Update(ctx context.Context, owner, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, owner, id string) error
}

func sessionKey(owner, id string) string {
	return fmt.Sprintf("quiz:session:%s:%s", owner, id)
}

// RedisSessionStore keeps sessions as JSON strings with a TTL and uses
// WATCH/MULTI for Update.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionStore) Create(ctx context.Context, owner string, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(owner, s.ID), raw, r.ttl).Err()
}

func (r *RedisSessionStore) Get(ctx context.Context, owner, id string) (*Session, error) {
	return r.get(ctx, r.rdb, sessionKey(owner, id))
}

func (r *RedisSessionStore) get(ctx context.Context, c redis.Cmdable, key string) (*Session, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Update(ctx context.Context, owner, id string, fn func(*Session) error) (*Session, error) {
	key := sessionKey(owner, id)
	var updated *Session

	txf := func(tx *redis.Tx) error {
		s, err := r.get(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		raw, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrSessionBusy
}

func (r *RedisSessionStore) Delete(ctx context.Context, owner, id string) error {
	return r.rdb.Del(ctx, sessionKey(owner, id)).Err()
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// MemorySessionStore is the single-process fallback when Redis is not
// configured. Sessions are stored serialized so callers never share
// pointers with the store.
type MemorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *MemorySessionStore) Create(ctx context.Context, owner string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(sessionKey(owner, s.ID), s)
}

func (m *MemorySessionStore) put(key string, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	m.entries[key] = memoryEntry{raw: raw, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemorySessionStore) load(key string) (*Session, error) {
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, ErrSessionNotFound
	}
	var s Session
	if err := json.Unmarshal(e.raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (m *MemorySessionStore) Get(ctx context.Context, owner, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(sessionKey(owner, id))
}

func (m *MemorySessionStore) Update(ctx context.Context, owner, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(owner, id)
	s, err := m.load(key)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := m.put(key, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionKey(owner, id))
	return nil
}
