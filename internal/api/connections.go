package api

import (
	"log/slog"
	"sync"

	"github.com/ashureev/faqbot/internal/convlog"
	"github.com/coder/websocket"
)

// ConnRegistry tracks the live WebSocket connection of each chat session.
type ConnRegistry struct {
	mu     sync.RWMutex
	active map[string]*websocket.Conn
}

// NewConnRegistry creates an empty registry.
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{active: make(map[string]*websocket.Conn)}
}

// GetActive returns the connection for a session.
func (m *ConnRegistry) GetActive(sessionKey string) *websocket.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[sessionKey]
}

// Register adds a connection, closing any previous one for the same session.
func (m *ConnRegistry) Register(sessionKey string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.active[sessionKey]; ok && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "session replaced")
	}
	m.active[sessionKey] = conn
	slog.Info("Chat socket registered", "session_id", sessionKey)
}

// Unregister removes conn if it is still the session's current connection.
func (m *ConnRegistry) Unregister(sessionKey string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.active[sessionKey]; ok && current == conn {
		delete(m.active, sessionKey)
		slog.Info("Chat socket unregistered", "session_id", sessionKey)
	}
}

// CloseSession terminates the session's connection, if any.
func (m *ConnRegistry) CloseSession(sessionKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.active[sessionKey]
	if !ok {
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "session closed")
	delete(m.active, sessionKey)
}

// Len returns the number of live connections.
func (m *ConnRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// OnSessionEnd returns a store callback that closes the session's socket
// and records the end of the conversation.
func OnSessionEnd(conns *ConnRegistry, log convlog.Logger) func(id string) {
	return func(id string) {
		conns.CloseSession(id)
		log.Log(convlog.Event{
			SessionID: id,
			Channel:   "session",
			Direction: "internal",
			EventType: "session_end",
		})
	}
}
