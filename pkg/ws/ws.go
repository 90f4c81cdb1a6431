// Package ws pushes server events to browsers over gorilla/websocket.
//
// # Quick start
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//
//	router.Get("/ws/products", "ws.products", func(w http.ResponseWriter, r *http.Request) {
//	    client, err := ws.Upgrade(w, r, hub)
//	    if err != nil {
//	        return
//	    }
//	    client.Send(initialPayload)
//	})
//
//	// Broadcast from anywhere:
//	hub.Publish([]byte(`{"type":"inventory.changed"}`))
//
// Publish hands the message to the hub loop before returning, so a client
// that Joins after Publish returns never receives that message. Accept, Send
// and Join let a handler queue an initial frame ahead of every later
// broadcast.
package ws

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/estoque/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // clients only send control frames
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// ─── Client ───────────────────────────────────────────────────────────────────

// Client represents a single connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// readPump drains the connection so pongs and close frames are processed.
// Text sent by clients is ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			return
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

// Send queues a message for this client only. A full buffer drops it.
func (c *Client) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ─── Hub ──────────────────────────────────────────────────────────────────────

// Hub maintains all active WebSocket connections and handles broadcasting.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      atomic.Int64
	done       chan struct{}
}

// NewHub creates a new Hub. Call hub.Run(ctx) in a goroutine at startup;
// Publish and Join wait for the loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub event loop. It returns when ctx is cancelled, closing every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.count.Add(1)
			logger.Debug("ws: client connected", "total", h.count.Load())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				logger.Debug("ws: client disconnected", "total", h.count.Load())
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.Send(msg) {
					// slow consumer
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	c.close()
	h.count.Add(-1)
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues data for every joined client. It returns once the hub loop
// has taken the message, or false when the hub has stopped. Client queues
// never block the loop; a client whose queue is full is dropped.
func (h *Hub) Publish(data []byte) bool {
	select {
	case h.broadcast <- data:
		return true
	case <-h.done:
		return false
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// ─── Upgrade ─────────────────────────────────────────────────────────────────

// Accept upgrades an HTTP connection to a WebSocket without joining the hub.
// Frames queued with Send before Join are written first.
func Accept(w http.ResponseWriter, r *http.Request, hub *Hub) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("ws: upgrade failed", "error", err)
		return nil, err
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer)}
	go client.writePump()
	go client.readPump()
	return client, nil
}

// Join adds the client to the hub's broadcast set. Messages published
// before Join returns are not delivered to it.
func (c *Client) Join() error {
	select {
	case c.hub.register <- c:
		return nil
	case <-c.hub.done:
		c.close()
		return http.ErrServerClosed
	}
}

// Upgrade accepts the connection and joins the hub.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub) (*Client, error) {
	client, err := Accept(w, r, hub)
	if err != nil {
		return nil, err
	}
	if err := client.Join(); err != nil {
		return nil, err
	}
	return client, nil
}
