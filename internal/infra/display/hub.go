// Package display serves the exhibit's score/battery panel to a local
// browser over a websocket, replacing a desktop toolkit window. The engine
// feeds it through the hal.Outputs interface; every call is fire-and-forget
// and never blocks the game tick.
package display

import (
	"context"
	"sync"

	"github.com/energiepark/moonshot/internal/platform/logger"
	"github.com/energiepark/moonshot/internal/platform/metrics"
)

// broadcastBuffer bounds how many pending frames a burst of actions may
// queue before frames get dropped. The panel is purely visual; dropping a
// frame only skips an intermediate state.
const broadcastBuffer = 64

// Hub maintains the set of connected panel clients and broadcasts state
// frames to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger

	// sink receives simulated inputs from panel clients; nil outside
	// simulator mode.
	sink InputSink
}

// NewHub initializes a new panel Hub. sink may be nil when the exhibit runs
// on real hardware.
func NewHub(log *logger.Logger, sink InputSink) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		sink:       sink,
	}
}

// Run starts the Hub's main loop to handle client connections and
// broadcasts. Call in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Panel hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("Panel client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Panel client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage()
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a frame for broadcast without ever blocking the caller.
// The engine tick calls this indirectly through PanelDisplay.
func (h *Hub) Publish(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
		metrics.Get().RecordWSDropped()
	}
}
