package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 64

	// TopicTasks is the topic every client is subscribed to on connect.
	TopicTasks = "tasks"
)

// TokenVerifier validates a session token.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.Claims, error)
}

// Manager keeps the open websocket connections and routes messages to the
// connections of one visitor.
type Manager struct {
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	verifier   TokenVerifier
	logger     *zap.Logger
}

// Client is one websocket connection of a visitor.
type Client struct {
	ID      uuid.UUID
	UserID  string
	Conn    *websocket.Conn
	Manager *Manager
	Send    chan []byte

	topicsMu sync.RWMutex
	topics   map[string]bool
}

// Message is the envelope written to clients.
type Message struct {
	Type    string      `json:"type"`
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
	Target  string      `json:"-"`
}

// NewManager creates a Manager. allowedOrigins empty means any origin.
func NewManager(verifier TokenVerifier, allowedOrigins []string, logger *zap.Logger) *Manager {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Manager{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
		verifier:   verifier,
		logger:     logger.Named("WebSocketManager"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

// Start runs the routing loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go m.run(ctx)
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			for id, client := range m.clients {
				close(client.Send)
				delete(m.clients, id)
			}
			m.mu.Unlock()
			m.logger.Info("WebSocket manager stopped")
			return

		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.ID] = client
			m.mu.Unlock()
			m.logger.Debug("Client connected", zap.String("clientID", client.ID.String()), zap.String("userID", client.UserID))

		case client := <-m.unregister:
			m.remove(client)

		case message := <-m.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				m.logger.Error("Failed to marshal websocket message", zap.String("type", message.Type), zap.Error(err))
				continue
			}
			m.deliver(message, data)
		}
	}
}

func (m *Manager) remove(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[client.ID]; ok {
		close(client.Send)
		delete(m.clients, client.ID)
		m.logger.Debug("Client disconnected", zap.String("clientID", client.ID.String()))
	}
}

func (m *Manager) deliver(message Message, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, client := range m.clients {
		if client.UserID != message.Target || !client.IsSubscribed(message.Topic) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			m.logger.Warn("Client send buffer full, dropping connection", zap.String("clientID", id.String()))
			close(client.Send)
			delete(m.clients, id)
		}
	}
}

// ConnectedClients returns the number of open connections.
func (m *Manager) ConnectedClients() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// ServeHTTP authenticates the visitor by the token query parameter and upgrades the connection.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := m.verifier.VerifyToken(r.Context(), token)
	if err != nil {
		m.logger.Debug("WebSocket token rejected", zap.Error(err))
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		ID:      uuid.New(),
		UserID:  claims.UserID.String(),
		Conn:    conn,
		Manager: m,
		Send:    make(chan []byte, sendBuffer),
		topics:  map[string]bool{TopicTasks: true},
	}

	select {
	case m.register <- client:
	case <-m.done:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

// SendToUser queues a message for every connection of userID. It never blocks
// the caller; messages are dropped once the manager has stopped or its queue is full.
func (m *Manager) SendToUser(userID, messageType, topic string, payload interface{}) {
	msg := Message{Type: messageType, Topic: topic, Payload: payload, Target: userID}
	select {
	case <-m.done:
	case m.broadcast <- msg:
	default:
		m.logger.Warn("WebSocket queue full, message dropped", zap.String("type", messageType), zap.String("userID", userID))
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Manager.unregister <- c:
		case <-c.Manager.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Manager.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		var cmd struct {
			Action string `json:"action"`
			Topic  string `json:"topic"`
		}
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}
		switch cmd.Action {
		case "subscribe":
			c.Subscribe(cmd.Topic)
		case "unsubscribe":
			c.Unsubscribe(cmd.Topic)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Subscribe adds a topic.
func (c *Client) Subscribe(topic string) {
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()
	c.topics[topic] = true
}

// Unsubscribe removes a topic.
func (c *Client) Unsubscribe(topic string) {
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()
	delete(c.topics, topic)
}

// IsSubscribed reports whether the client receives messages on topic.
func (c *Client) IsSubscribed(topic string) bool {
	c.topicsMu.RLock()
	defer c.topicsMu.RUnlock()
	return c.topics[topic]
}
