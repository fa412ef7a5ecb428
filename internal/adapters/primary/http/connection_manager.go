package http

import (
	"context"
	"sync"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

const sendBufferSize = 256

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	Send chan ports.UpdateEvent
}

// ConnectionManager fans events out to WebSocket connections. All map
// mutations happen under mu; Send channels are closed exactly once, by
// whoever removes the connection from the map.
type ConnectionManager struct {
	connections map[string]*Connection
	broadcast   chan ports.UpdateEvent
	register    chan *Connection
	unregister  chan string
	mu          sync.Mutex
	done        chan struct{}
	doneOnce    sync.Once
	logger      *logging.Logger
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger *logging.Logger) *ConnectionManager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ConnectionManager{
		connections: make(map[string]*Connection),
		broadcast:   make(chan ports.UpdateEvent, sendBufferSize),
		register:    make(chan *Connection),
		unregister:  make(chan string),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run starts the connection manager main loop
func (cm *ConnectionManager) Run(ctx context.Context) {
	defer cm.doneOnce.Do(func() { close(cm.done) })

	for {
		select {
		case <-ctx.Done():
			cm.CloseAll()
			return

		case conn := <-cm.register:
			cm.mu.Lock()
			cm.connections[conn.ID] = conn
			cm.mu.Unlock()
			cm.logger.Debug("client %s connected", conn.ID)

		case id := <-cm.unregister:
			cm.remove(id)

		case event := <-cm.broadcast:
			cm.mu.Lock()
			for id, conn := range cm.connections {
				select {
				case conn.Send <- event:
				default:
					cm.logger.Warn("client %s too slow, disconnecting", id)
					close(conn.Send)
					delete(cm.connections, id)
				}
			}
			cm.mu.Unlock()
		}
	}
}

func (cm *ConnectionManager) remove(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if conn, ok := cm.connections[id]; ok {
		delete(cm.connections, id)
		close(conn.Send)
		cm.logger.Debug("client %s disconnected", id)
	}
}

// RegisterConnection adds a new connection. It reports false once the
// manager has stopped.
func (cm *ConnectionManager) RegisterConnection(conn *Connection) bool {
	select {
	case cm.register <- conn:
		return true
	case <-cm.done:
		return false
	}
}

// Unregister removes a connection
func (cm *ConnectionManager) Unregister(connID string) {
	select {
	case cm.unregister <- connID:
	case <-cm.done:
	}
}

// Broadcast queues an event for every connection. It never blocks: when the
// queue is full the event is dropped.
func (cm *ConnectionManager) Broadcast(event ports.UpdateEvent) {
	select {
	case <-cm.done:
		return
	default:
	}
	select {
	case cm.broadcast <- event:
	default:
		cm.logger.Warn("broadcast queue full, dropping %s event", event.Type)
	}
}

// Count returns the number of live connections
func (cm *ConnectionManager) Count() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.connections)
}

// CloseAll closes all connections
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for id, conn := range cm.connections {
		close(conn.Send)
		delete(cm.connections, id)
	}
}
