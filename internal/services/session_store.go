package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/hoops-sim/internal/game"
	"github.com/stitts-dev/hoops-sim/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one player's in-progress setup: their roster, the chosen
// difficulty and the opponent generated for them, if any.
type Session struct {
	ID         string           `json:"id"`
	HomeTeam   models.Team      `json:"home_team"`
	AwayTeam   *models.Team     `json:"away_team,omitempty"`
	Difficulty string           `json:"difficulty"`
	LastResult *game.PlayResult `json:"last_result,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Clone copies the session so nothing reachable from the copy is shared.
func (s *Session) Clone() *Session {
	out := *s
	out.HomeTeam = s.HomeTeam.Clone()
	if s.AwayTeam != nil {
		away := s.AwayTeam.Clone()
		out.AwayTeam = &away
	}
	if s.LastResult != nil {
		out.LastResult = s.LastResult.Clone()
	}
	return &out
}

// SessionStore persists sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory with a sliding TTL.
// Expired sessions are invisible immediately and removed by a periodic sweep.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *logrus.Logger
}

func NewMemorySessionStore(ttl time.Duration, logger *logrus.Logger) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
		cron:     cron.New(),
		logger:   logger,
	}
}

// StartSweeper schedules Sweep every interval.
func (m *MemorySessionStore) StartSweeper(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	_, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if n := m.Sweep(); n > 0 {
			m.logger.WithField("expired", n).Info("Swept expired sessions")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweeper: %w", err)
	}
	m.cron.Start()
	m.logger.WithField("interval", interval).Info("Session sweeper started")
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || m.expired(entry) {
		return nil, ErrSessionNotFound
	}
	return entry.session.Clone(), nil
}

func (m *MemorySessionStore) Save(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.ID] = memoryEntry{session: session.Clone(), expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Sweep removes expired sessions and returns how many it dropped.
func (m *MemorySessionStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.sessions {
		if m.expired(entry) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemorySessionStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemorySessionStore) Close() error {
	ctx := m.cron.Stop()
	<-ctx.Done()
	return nil
}

func (m *MemorySessionStore) expired(entry memoryEntry) bool {
	return m.ttl > 0 && !m.now().Before(entry.expiresAt)
}

// RedisSessionStore keeps sessions in Redis so several servers can share them.
type RedisSessionStore struct {
	cache *CacheService
	ttl   time.Duration
}

func NewRedisSessionStore(cache *CacheService, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: cache, ttl: ttl}
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	if err := r.cache.Get(ctx, SessionCacheKey(id), &session); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	return r.cache.Set(ctx, SessionCacheKey(session.ID), session, r.ttl)
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, SessionCacheKey(id))
}

func (r *RedisSessionStore) Ping(ctx context.Context) error {
	return r.cache.Ping(ctx)
}

func (r *RedisSessionStore) BreakerState() gobreaker.State {
	return r.cache.BreakerState()
}

func (r *RedisSessionStore) Close() error {
	return r.cache.client.Close()
}
