// Package websocket delivers desktop alerts to connected browser clients.
// A hub tracks connections; each client receives every alert by default and
// may narrow its stream to specific notification categories.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/notify"
)

// Alert is the wire form of a desktop notification.
type Alert struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is an inbound control message. Action is "filter" to
// restrict the stream to the listed categories, or "clear-filter" to
// receive everything again.
type ClientMessage struct {
	Action     string   `json:"action"`
	Categories []string `json:"categories"`
}

// Client is a single connected browser session.
type Client struct {
	ID         string
	Send       chan []byte
	categories map[string]struct{} // empty means no filter
}

// wantsCategory reports whether the client's filter admits the category.
func (c *Client) wantsCategory(category string) bool {
	if len(c.categories) == 0 {
		return true
	}
	_, ok := c.categories[category]
	return ok
}

// Hub fans alerts out to connected clients. Safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  zerolog.Logger
}

// NewHub returns an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger.With().Str("component", "websocket").Logger(),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
}

// SetFilter replaces a client's category filter. An empty list clears it.
func (h *Hub) SetFilter(client *Client, categories []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(categories) == 0 {
		client.categories = nil
		return
	}
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	client.categories = set
}

// ProcessMessage applies an inbound control message to the client.
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "filter":
		h.SetFilter(client, msg.Categories)
	case "clear-filter":
		h.SetFilter(client, nil)
	}
}

// Push broadcasts an alert to every client whose filter admits it.
func (h *Hub) Push(alert Alert) {
	data, err := json.Marshal(alert)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal alert")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.wantsCategory(alert.Category) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify implements notify.DesktopNotifier by pushing the notification to
// all connected clients.
func (h *Hub) Notify(_ context.Context, n notify.Notification) error {
	h.Push(Alert{
		ID:        n.ID,
		Category:  n.Category,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Timestamp: n.Timestamp,
	})
	return nil
}

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// Handler upgrades HTTP connections and routes client messages to the hub.
type Handler struct {
	hub *Hub
}

// NewHandler creates a handler bound to the given hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes registers the WebSocket endpoint on the provided group.
func (wh *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws", wh.HandleConnect)
}

// HandleConnect upgrades the connection, registers the client, and starts
// the read/write pumps.
func (wh *Handler) HandleConnect(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		ID:   uuid.New().String(),
		Send: make(chan []byte, 256),
	}

	wh.hub.Register(client)

	go wh.writePump(client, ws)
	go wh.readPump(client, ws)

	return nil
}

func (wh *Handler) readPump(client *Client, ws *gorillawebsocket.Conn) {
	defer func() {
		wh.hub.Unregister(client)
		ws.Close()
	}()

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // Ignore malformed messages.
		}

		wh.hub.ProcessMessage(client, msg)
	}
}

func (wh *Handler) writePump(client *Client, ws *gorillawebsocket.Conn) {
	defer ws.Close()

	for message := range client.Send {
		if err := ws.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
			break
		}
	}
}
