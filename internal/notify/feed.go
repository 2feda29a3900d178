package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/models"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// feedClient serialises writes to one connection.
type feedClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Feed pushes new orders to connected admin websocket clients.
type Feed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*feedClient
	logger  *logger.Logger
}

func NewFeed(log *logger.Logger) *Feed {
	return &Feed{
		clients: make(map[*websocket.Conn]*feedClient),
		logger:  log,
	}
}

func (f *Feed) Name() string {
	return "websocket"
}

// ServeHTTP upgrades the request and keeps the client registered until it disconnects.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("feed_upgrade_failed", "Failed to upgrade websocket", "", err, nil)
		return
	}

	f.mu.Lock()
	f.clients[conn] = &feedClient{conn: conn}
	f.mu.Unlock()

	defer f.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients returns the number of connected clients.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// NotifyOrderPlaced hands msg to one writer goroutine per client and returns
// without waiting. Each write is bounded by writeWait.
func (f *Feed) NotifyOrderPlaced(ctx context.Context, msg *models.OrderPlacedMessage) error {
	f.mu.Lock()
	clients := make([]*feedClient, 0, len(f.clients))
	for _, c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.Unlock()

	for _, c := range clients {
		go func(c *feedClient) {
			if err := c.write(msg); err != nil {
				f.logger.Debug("feed_client_dropped", "Dropping websocket client after failed write", "", map[string]interface{}{
					"remote_addr": c.conn.RemoteAddr().String(),
				})
				f.remove(c.conn)
			}
		}(c)
	}
	return nil
}

func (c *feedClient) write(msg *models.OrderPlacedMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (f *Feed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	_, ok := f.clients[conn]
	delete(f.clients, conn)
	f.mu.Unlock()
	if ok {
		conn.Close()
	}
}
