package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
)

// Notifier receives every state change of every session
type Notifier interface {
	NotifySession(state State)
}

// Store keeps sessions in memory, keyed by the session cookie value.
// Sessions are lost on restart.
type Store struct {
	deps     *Dependencies
	defaults common.SignalsConfig
	logger   arbor.ILogger

	mu       sync.RWMutex
	sessions map[string]*Session
	notifier Notifier
}

// NewStore creates an empty store. New sessions start with the configured default tags.
func NewStore(deps Dependencies, defaults common.SignalsConfig, logger arbor.ILogger) *Store {
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &Store{
		deps:     &deps,
		defaults: defaults,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// SetNotifier registers the receiver of state changes
func (s *Store) SetNotifier(n Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

func (s *Store) publish(state State) {
	s.mu.RLock()
	n := s.notifier
	s.mu.RUnlock()
	if n != nil {
		n.NotifySession(state)
	}
}

// Get returns an existing session
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// GetOrCreate returns the session for id, creating a fresh one (with a new id) when unknown
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			sess.Touch()
			return sess, false
		}
	}
	return s.Create(), true
}

// Create starts a new session with a random id
func (s *Store) Create() *Session {
	id := uuid.New().String()
	source := DataSource(s.defaults.DataSource)
	if source != DataSourceAPI {
		source = DataSourceAI
	}

	sess := newSession(id, s.deps, s.defaults.DefaultTags, source, s.defaults.SignalCount, s.publish)

	s.mu.Lock()
	s.sessions[id] = sess
	total := len(s.sessions)
	s.mu.Unlock()

	s.logger.Debug().Str("session", id).Int("sessions", total).Msg("Session created")
	return sess
}

// Count returns the number of live sessions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune removes sessions idle for longer than maxIdle and returns how many were removed
func (s *Store) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("Pruned idle sessions")
	}
	return removed
}
