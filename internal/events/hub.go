package events

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a board may lag behind before it is dropped.
	sendBuffer = 32
)

type client struct {
	managerID int64
	conn      *websocket.Conn
	send      chan StayEvent
}

// writePump owns all writes to the connection.
func (c *client) writePump() {
	for ev := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(ev); err != nil {
			slog.Debug("board write failed", "manager_id", c.managerID, "error", err)
			_ = c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	_ = c.conn.Close()
}

// Hub pushes stay events to every connected room board.
type Hub struct {
	clients  map[*client]struct{}
	mutex    sync.RWMutex
	upgrader websocket.Upgrader
}

func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Hub) register(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[c] = struct{}{}
}

// unregister closes the client's queue; its writer then closes the socket.
func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Publish implements Publisher. It only queues the event and never waits on
// a socket; a board whose queue is full is dropped.
func (h *Hub) Publish(ctx context.Context, ev StayEvent) error {
	var lagging []*client

	h.mutex.RLock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			lagging = append(lagging, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range lagging {
		slog.WarnContext(ctx, "board too slow, disconnecting", "manager_id", c.managerID)
		h.unregister(c)
	}
	return nil
}

// ServeWS upgrades the request and keeps the board registered until the
// peer goes away. Inbound messages are ignored.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	cl := &client{
		managerID: c.GetInt64("manager_id"),
		conn:      conn,
		send:      make(chan StayEvent, sendBuffer),
	}
	h.register(cl)
	go cl.writePump()
	defer h.unregister(cl)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
