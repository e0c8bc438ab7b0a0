package mockserver

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// SessionManager tracks open chat connections by session ID.
type SessionManager struct {
	mu     sync.RWMutex
	active map[string]*websocket.Conn
	logger *slog.Logger
}

// NewSessionManager creates a new session manager.
func NewSessionManager(logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		active: make(map[string]*websocket.Conn),
		logger: logger,
	}
}

// Get returns the connection for a session, or nil.
func (m *SessionManager) Get(sessionID string) *websocket.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[sessionID]
}

// Count returns the number of open sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Register adds a connection, replacing (and closing) any previous one for
// the same session.
func (m *SessionManager) Register(sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.active[sessionID]; ok && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "session replaced")
	}
	m.active[sessionID] = conn
	m.logger.Info("Chat session registered", "session_id", sessionID)
}

// Unregister removes conn if it is still the session's current connection.
func (m *SessionManager) Unregister(sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.active[sessionID]; ok && current == conn {
		delete(m.active, sessionID)
		m.logger.Info("Chat session unregistered", "session_id", sessionID)
	}
}

// CloseAll drops every open session without a close handshake and returns
// how many were dropped.
func (m *SessionManager) CloseAll(reason string) int {
	m.mu.Lock()
	sessions := m.active
	m.active = make(map[string]*websocket.Conn)
	m.mu.Unlock()

	for sid, conn := range sessions {
		_ = conn.CloseNow()
		m.logger.Info("Chat session closed", "session_id", sid, "reason", reason)
	}
	return len(sessions)
}
