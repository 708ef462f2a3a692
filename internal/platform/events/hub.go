// Package events pushes resource change notifications to WebSocket
// clients. Clients subscribe to resource names such as "patients" or to
// "*" for every resource.
package events

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcare/medcare/internal/platform/interchange"
)

// Wildcard subscribes a client to every resource.
const Wildcard = "*"

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

func (a Action) Label() string { return string(a) }

// Event is a change to a single resource. Data carries the resource after
// the change and is absent for deletions.
type Event struct {
	Action   Action
	Resource string
	ID       int64
	At       time.Time
	Data     interchange.Record
}

func (e Event) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "type", Value: e.Action},
		{Name: "resource", Value: e.Resource},
		{Name: "id", Value: e.ID},
		{Name: "timestamp", Value: e.At},
		{Name: "data", Value: e.Data},
	}
}

// Publisher is how services announce changes.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is a single connected subscriber.
type Client struct {
	ID     string
	Topics []string
	Send   chan []byte
	conn   Conn
}

func NewClient(topics []string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Topics: topics,
		Send:   make(chan []byte, 256),
	}
}

// Hub tracks clients and their topic subscriptions.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // topic -> subscribers
	all     map[*Client]struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		now:     time.Now,
	}
}

// Register adds a client and subscribes it to its initial topics.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	h.addLocked(client, client.Topics)
}

// Unregister removes a client and closes its Send channel. It is a no-op
// for clients that are not registered.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	h.removeLocked(client, client.Topics)
	delete(h.all, client)
	close(client.Send)
}

func (h *Hub) Subscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.addLocked(client, topics)
	client.Topics = append(client.Topics, topics...)
}

func (h *Hub) Unsubscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client, topics)
	drop := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		drop[t] = struct{}{}
	}
	remaining := client.Topics[:0]
	for _, t := range client.Topics {
		if _, ok := drop[t]; !ok {
			remaining = append(remaining, t)
		}
	}
	client.Topics = remaining
}

func (h *Hub) addLocked(client *Client, topics []string) {
	for _, topic := range topics {
		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
	}
}

func (h *Hub) removeLocked(client *Client, topics []string) {
	for _, topic := range topics {
		if subscribers, ok := h.clients[topic]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.clients, topic)
			}
		}
	}
}

// HandleMessage applies a client control message of the form
// {"action":"subscribe","topics":"patients,billing"}. Unknown actions are
// ignored.
func (h *Hub) HandleMessage(client *Client, text string) {
	body := interchange.Body(interchange.Decode(text))
	topics := body.List("topics")
	switch body.String("action") {
	case "subscribe":
		h.Subscribe(client, topics)
	case "unsubscribe":
		h.Unsubscribe(client, topics)
	}
}

// Publish sends the event to subscribers of its resource and to wildcard
// subscribers. Clients whose buffer is full miss the event.
func (h *Hub) Publish(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = h.now()
	}
	data := []byte(interchange.Marshal(event))

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := make(map[*Client]struct{})
	for _, topic := range []string{event.Resource, Wildcard} {
		for client := range h.clients[topic] {
			if _, dup := sent[client]; dup {
				continue
			}
			sent[client] = struct{}{}
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to WebSocket subscriptions.
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.HandleConnect)
}

// HandleConnect upgrades the connection and registers the client with the
// topics listed in the optional ?topics= query parameter.
func (h *Handler) HandleConnect(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	topics := interchange.Body{"topics": c.QueryParam("topics")}.List("topics")
	client := NewClient(topics)
	client.conn = ws
	h.hub.Register(client)
	h.logger.Debug().Str("client_id", client.ID).Strs("topics", topics).Msg("change feed client connected")

	go h.writePump(client)
	go h.readPump(client)
	return nil
}

func (h *Handler) readPump(client *Client) {
	defer func() {
		h.hub.Unregister(client)
		client.conn.Close()
		h.logger.Debug().Str("client_id", client.ID).Msg("change feed client disconnected")
	}()

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		h.hub.HandleMessage(client, string(message))
	}
}

func (h *Handler) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.Send {
		if err := client.conn.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
			return
		}
	}
}
