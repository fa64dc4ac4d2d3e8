package display

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/energiepark/moonshot/internal/hal"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 256
)

// InputSink receives simulated sensor/button changes from a panel client.
// Only the simulator wires one; the hardware build ignores panel input.
type InputSink interface {
	SetSensor(index int, active bool)
	SetButton(b hal.Button, pressed bool)
}

// simCommand is an incoming message from the simulator page.
type simCommand struct {
	Type   string `json:"type"`   // "sensor" or "button"
	Index  int    `json:"index"`  // sensor index
	Button string `json:"button"` // "charge" or "discharge"
	State  bool   `json:"state"`
}

// Client represents one connected panel page.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient wraps an upgraded websocket connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump consumes messages from the panel page. State frames only flow
// outward; the only inbound traffic is simulator input, which is dropped
// unless a sink is configured.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Errorf("Panel read error: %v", err)
			}
			break
		}
		if c.hub.sink == nil {
			continue
		}

		var cmd simCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Error("Failed to parse panel command: " + err.Error())
			continue
		}
		c.dispatch(cmd)
	}
}

func (c *Client) dispatch(cmd simCommand) {
	switch cmd.Type {
	case "sensor":
		if cmd.Index < 0 || cmd.Index >= hal.NumSensors {
			c.hub.logger.Errorf("Panel command with bad sensor index %d", cmd.Index)
			return
		}
		c.hub.sink.SetSensor(cmd.Index, cmd.State)
	case "button":
		b := hal.Button(cmd.Button)
		if !b.Valid() {
			c.hub.logger.Errorf("Panel command with bad button %q", cmd.Button)
			return
		}
		c.hub.sink.SetButton(b, cmd.State)
	}
}

// WritePump pushes queued frames and keepalive pings to the panel page.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
