package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toolstation/catalog"
)

var ErrNotFound = errors.New("session not found")

type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	recorder    Recorder
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewManager creates a Manager. Sessions with no connected client are reaped
// after idleTimeout; zero disables reaping. rec may be nil.
func NewManager(rec Recorder, idleTimeout time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		recorder:    rec,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Create opens a session on tool for client.
func (m *Manager) Create(client, tool string) (*Session, error) {
	if _, ok := catalog.Get(tool); !ok {
		return nil, ErrUnknownTool
	}
	if !textTools[tool] {
		return nil, ErrUnsupportedTool
	}

	s := newSession(uuid.New().String(), tool, client, m.recorder, m.now)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("id", s.ID), zap.String("tool", tool))
	return s, nil
}

// List returns the sessions owned by client, oldest first. The empty client
// lists every session.
func (m *Manager) List(client string) []*Session {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if client == "" || s.Client == client {
			list = append(list, s)
		}
	}
	m.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Kill(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.close()
	return nil
}

// Reap removes sessions with no connected client that have been idle longer
// than the idle timeout, and returns how many it removed.
func (m *Manager) Reap() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTimeout)

	var reaped []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.Connected() || s.idleSince().After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		reaped = append(reaped, s)
	}
	m.mu.Unlock()

	for _, s := range reaped {
		s.close()
		m.logger.Debug("session reaped", zap.String("id", s.ID), zap.String("tool", s.Tool))
	}
	return len(reaped)
}

// Run reaps idle sessions periodically until ctx is cancelled, then closes
// every remaining session.
func (m *Manager) Run(ctx context.Context) error {
	defer m.closeAll()
	if m.idleTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	interval := max(m.idleTimeout/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Reap(); n > 0 {
				m.logger.Info("reaped idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
