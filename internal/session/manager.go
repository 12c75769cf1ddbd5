// Package session owns screening sessions: one motion analyzer and one face
// analyzer per session, created on demand and passed by reference to whoever
// needs them. There is no process-wide analyzer singleton.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recognicam-go/internal/config"
	"recognicam-go/internal/face"
	"recognicam-go/internal/models"
	"recognicam-go/internal/motion"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session bundles the analyzers for one screening attempt plus a bounded
// history of polled metric snapshots for live display and charting.
type Session struct {
	ID        string
	Motion    *motion.Analyzer
	Face      *face.Analyzer
	CreatedAt time.Time

	mu         sync.Mutex
	lastTouch  time.Time
	history    []models.MetricSnapshot
	historyCap int
}

// Touch marks the session as recently used, deferring TTL eviction.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastTouch = time.Now()
	s.mu.Unlock()
}

// AppendSnapshot records one polled snapshot, evicting the oldest when the
// history is full.
func (s *Session) AppendSnapshot(snap models.MetricSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == s.historyCap && s.historyCap > 0 {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, snap)
}

// Snapshots returns a copy of the recorded snapshot history.
func (s *Session) Snapshots() []models.MetricSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MetricSnapshot, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouch
}

// Manager creates, looks up, and expires sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      *config.Config
	log      *zap.Logger
}

// NewManager creates a session manager.
func NewManager(cfg *config.Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		log:      log,
	}
}

// Create builds a new session with fresh analyzers and returns it.
func (m *Manager) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		Motion:     motion.NewAnalyzer(m.cfg.Motion, m.log),
		Face:       face.NewAnalyzer(m.cfg.Face, m.log),
		CreatedAt:  now,
		lastTouch:  now,
		historyCap: m.cfg.Server.SnapshotHistory,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("Screening session created", zap.String("session_id", s.ID))
	return s
}

// Get returns the session for id, or ErrNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.Touch()
	return s, nil
}

// Remove drops a session. The analyzers stop receiving data as soon as their
// owners stop calling ingest; nothing else to tear down.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper evicts idle sessions on a fixed interval in a goroutine.
func (m *Manager) StartSweeper() {
	ttl := time.Duration(m.cfg.Server.SessionTTLMin) * time.Minute
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			m.sweep(ttl)
		}
	}()
}

func (m *Manager) sweep(ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			m.log.Debug("Expired idle screening session", zap.String("session_id", id))
		}
	}
}
