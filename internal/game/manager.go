package game

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionOptions describe a session to create.
type SessionOptions struct {
	Engine   Options
	Adapters [2]DecisionAdapter
	Config   SessionConfig
	// AutoStart deals the first game immediately.
	AutoStart bool
}

// Manager is the registry of live sessions.
type Manager struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*managedSession
	recorder *ReplayRecorder
}

type managedSession struct {
	session *Session
	opts    SessionOptions
}

// NewManager creates an empty registry. A nil recorder disables replays.
func NewManager(logger *zap.Logger, recorder *ReplayRecorder) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:   logger,
		sessions: make(map[string]*managedSession),
		recorder: recorder,
	}
}

// Create builds a session under a fresh ID.
func (m *Manager) Create(ctx context.Context, opts SessionOptions) (*Session, error) {
	id := uuid.New().String()
	s, err := m.build(ctx, id, opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = &managedSession{session: s, opts: opts}
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", id), zap.Bool("auto_start", opts.AutoStart))
	return s, nil
}

func (m *Manager) build(ctx context.Context, id string, opts SessionOptions) (*Session, error) {
	engine, err := NewEngine(opts.Engine, m.logger.With(zap.String("session_id", id)))
	if err != nil {
		return nil, err
	}
	s := NewSession(id, engine, opts.Adapters, opts.Config, m.logger)
	if m.recorder != nil {
		s.WithRecorder(m.recorder)
	}
	if opts.AutoStart {
		if err := s.Submit(ctx, StartNewGameIntent()); err != nil {
			return nil, fmt.Errorf("failed to start game: %w", err)
		}
	}
	return s, nil
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return ms.session, nil
}

// Reset replaces a session wholesale with a fresh one under the same ID.
// Any replay in flight for the old game is discarded.
func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	ms, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}

	opts := ms.opts
	opts.Engine.Seed = 0
	s, err := m.build(ctx, id, opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = &managedSession{session: s, opts: ms.opts}
	m.mu.Unlock()
	ms.session.Close()

	m.logger.Info("session reset", zap.String("session_id", id))
	return s, nil
}

// Remove drops a session, saving its replay when one is recorded.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	ms.session.Close()

	if m.recorder != nil {
		if err := m.recorder.SaveReplay(id); err != nil {
			m.logger.Debug("no replay saved", zap.String("session_id", id), zap.Error(err))
		}
	}
	m.logger.Info("session removed", zap.String("session_id", id))
}

// List returns the IDs of every live session, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
