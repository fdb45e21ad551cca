// Package ws provides WebSocket fan-out for live catalog updates using
// gorilla/websocket.
//
// A single Hub owns all connected viewers. The realtime controller pushes
// the full product collection into Hub.Broadcast after every catalog
// mutation; the hub delivers it to every client and silently drops clients
// that cannot keep up.
package ws

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/tienda/pkg/logger"
	"github.com/shashiranjanraj/tienda/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Client represents a single connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump forwards inbound frames to the hub's OnMessage hook and tears
// the client down on error. The read loop also notices disconnects and
// answers pings.
func (c *Client) readPump() {
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
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}
		if c.hub.OnMessage != nil {
			c.hub.OnMessage(msg)
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Send queues a message to be sent to this specific client.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		// Buffer full — drop message.
	}
}

// Hub maintains all active WebSocket connections and handles broadcasting.
type Hub struct {
	clients    map[*Client]bool
	count      atomic.Int64
	Broadcast  chan []byte // send to all connected clients
	register   chan *Client
	unregister chan *Client
	// OnConnect is called from the hub loop for every new client, before it
	// receives any broadcast. The realtime controller uses it to push the
	// current catalog to the newcomer.
	OnConnect func(c *Client)
	// OnMessage receives every inbound frame, called from the owning
	// client's read goroutine.
	OnMessage func(data []byte)
}

// NewHub creates a new Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub event loop. Must be run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			metrics.WSClients.Set(float64(len(h.clients)))
			logger.Info("ws: client connected", "total", len(h.clients))
			if h.OnConnect != nil {
				h.OnConnect(client)
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.count.Store(int64(len(h.clients)))
				metrics.WSClients.Set(float64(len(h.clients)))
				logger.Info("ws: client disconnected", "total", len(h.clients))
			}

		case msg := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// ClientCount returns the number of currently connected clients. Safe to
// call from any goroutine; the hub loop keeps the counter in step with the
// client map.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// Upgrade upgrades an HTTP connection to a WebSocket and registers the
// resulting client with the given hub.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
