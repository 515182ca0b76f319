package usecase

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/service/simulation"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/secmon-lab/oprisk/pkg/utils/metrics"
)

// Session owns an assessment store, a seeded generator and the last generated
// event table. Writers of one session are serialized by its lock.
type Session struct {
	ID        types.SessionID `json:"id"`
	Seed      uint64          `json:"seed"`
	CreatedAt time.Time       `json:"created_at"`

	mu         sync.Mutex
	lastAccess time.Time
	repo       interfaces.Repository
	generator  *simulation.Generator
	events     *model.Table
}

// Repository returns the session's assessment store.
func (s *Session) Repository() interfaces.Repository {
	return s.repo
}

// Events returns the last generated table, or nil.
func (s *Session) Events() *model.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}

// LastAccess returns when the session was last used.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// OpenOptions are per session overrides.
type OpenOptions struct {
	// Seed fixes the generator seed. Nil draws a random seed.
	Seed *uint64
}

type sessionOption func(*SessionManager)

func withSessionSeed(f func() uint64) sessionOption {
	return func(m *SessionManager) {
		if f != nil {
			m.seedFunc = f
		}
	}
}

func withSessionLimit(n int) sessionOption {
	return func(m *SessionManager) {
		m.maxSessions = n
	}
}

func withSessionClock(now func() time.Time) sessionOption {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

func withSessionMetrics(mt *metrics.Metrics) sessionOption {
	return func(m *SessionManager) {
		m.metrics = mt
	}
}

// SessionManager opens, looks up and closes sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[types.SessionID]*Session
	newRepo     RepositoryFactory
	genOpts     []simulation.Option
	seedFunc    func() uint64
	maxSessions int
	now         func() time.Time
	metrics     *metrics.Metrics
}

// NewSessionManager creates a manager whose sessions use stores made by newRepo
// and generators configured with genOpts.
func NewSessionManager(newRepo RepositoryFactory, genOpts []simulation.Option, opts ...sessionOption) *SessionManager {
	m := &SessionManager{
		sessions: make(map[types.SessionID]*Session),
		newRepo:  newRepo,
		genOpts:  genOpts,
		seedFunc: randomSeed,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func randomSeed() uint64 {
	return rand.Uint64()
}

// Open starts a new session.
func (m *SessionManager) Open(ctx context.Context, opts OpenOptions) (*Session, error) {
	seed := m.seedFunc()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	generator, err := simulation.NewWithSeed(seed, m.genOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create generator")
	}

	now := m.now().UTC()
	session := &Session{
		ID:         types.NewSessionID(),
		Seed:       seed,
		CreatedAt:  now,
		lastAccess: now,
		repo:       m.newRepo(),
		generator:  generator,
	}

	m.mu.Lock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return nil, goerr.Wrap(ErrSessionLimit, "cannot open session", goerr.V("max_sessions", m.maxSessions))
	}
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.metrics.SessionOpened()
	logging.From(ctx).Debug("session opened", "session_id", session.ID, "seed", seed)

	return session, nil
}

// Get looks a session up and marks it as used.
func (m *SessionManager) Get(ctx context.Context, id types.SessionID) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "unknown session", goerr.V(SessionIDKey, id))
	}

	session.mu.Lock()
	session.lastAccess = m.now().UTC()
	session.mu.Unlock()

	return session, nil
}

// Close discards a session and everything it owns.
func (m *SessionManager) Close(ctx context.Context, id types.SessionID) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "unknown session", goerr.V(SessionIDKey, id))
	}

	m.metrics.SessionClosed()
	logging.From(ctx).Debug("session closed", "session_id", id)
	return nil
}

// Count returns the number of open sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the open session IDs in creation order.
func (m *SessionManager) IDs() []types.SessionID {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	ids := make([]types.SessionID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

// CloseIdle closes every session unused for longer than idle and returns how
// many were closed.
func (m *SessionManager) CloseIdle(ctx context.Context, idle time.Duration) int {
	deadline := m.now().UTC().Add(-idle)

	m.mu.Lock()
	var expired []types.SessionID
	for id, s := range m.sessions {
		if s.LastAccess().Before(deadline) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.metrics.SessionClosed()
		logging.From(ctx).Info("idle session closed", "session_id", id)
	}
	return len(expired)
}

// update runs f while holding the session's writer lock.
func (s *Session) update(f func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f()
}
