package realtime

import (
	"errors"
	"log"
	"sync"
)

var (
	ErrDuplicateRegistration = errors.New("realtime: connection id already registered")
	ErrConnectionNotFound    = errors.New("realtime: connection not registered")
)

const sendBuffer = 16

// Connection is one live realtime session. Outbound delivery goes through a
// buffered channel drained by the connection's write pump, so fan-out never
// blocks on a slow socket.
type Connection struct {
	ID       string
	Identity string
	send     chan []byte
}

// Outbound is the delivery channel read by the write pump. It is closed when
// the connection is unregistered.
func (c *Connection) Outbound() <-chan []byte {
	return c.send
}

// ConnectionRegistry owns the authoritative id -> connection mapping.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[string]*Connection
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: map[string]*Connection{}}
}

func (cr *ConnectionRegistry) Register(id, identity string) (*Connection, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if _, ok := cr.conns[id]; ok {
		return nil, ErrDuplicateRegistration
	}
	conn := &Connection{ID: id, Identity: identity, send: make(chan []byte, sendBuffer)}
	cr.conns[id] = conn
	return conn, nil
}

// Unregister removes the connection and closes its outbound channel. Returns
// nil if the id is already gone: disconnect cleanup can race and the second
// caller must see a no-op.
func (cr *ConnectionRegistry) Unregister(id string) *Connection {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	conn, ok := cr.conns[id]
	if !ok {
		return nil
	}
	delete(cr.conns, id)
	close(conn.send)
	return conn
}

func (cr *ConnectionRegistry) Get(id string) (*Connection, bool) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	conn, ok := cr.conns[id]
	return conn, ok
}

func (cr *ConnectionRegistry) IDs() []string {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	ids := make([]string, 0, len(cr.conns))
	for id := range cr.conns {
		ids = append(ids, id)
	}
	return ids
}

// deliver writes payload to each identified connection without blocking.
// A recipient whose buffer is full loses the event. Holding the read lock for
// the whole loop keeps delivery from racing an unregister's channel close;
// ids no longer registered are skipped.
func (cr *ConnectionRegistry) deliver(ids []string, payload []byte) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	for _, id := range ids {
		conn, ok := cr.conns[id]
		if !ok {
			continue
		}
		select {
		case conn.send <- payload:
		default:
			log.Printf("realtime: dropping event for connection %s: send buffer full", id)
		}
	}
}
