package ws

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with metadata
type ClientConnection struct {
	Conn         *websocket.Conn
	UserID       string
	LastPong     time.Time
	SupportsGzip bool
	PingTicker   *time.Ticker
	CloseChan    chan struct{}

	// Channels this connection currently watches. Guarded by the hub mutex.
	channels map[string]struct{}

	// Serializes writes; gorilla connections allow one writer at a time.
	writeMux sync.Mutex
}

// Hub manages all active WebSocket connections and their channel
// subscriptions. Events are fire-and-forget: a client that misses one
// re-syncs through the paginated feed on reconnect, so there is no offline
// queue.
type Hub struct {
	clients      map[string]*ClientConnection
	clientsMux   sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[string]*ClientConnection),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring
func (h *Hub) Register(userID string, conn *websocket.Conn, supportsGzip bool) {
	clientConn := &ClientConnection{
		Conn:         conn,
		UserID:       userID,
		LastPong:     time.Now(),
		SupportsGzip: supportsGzip,
		PingTicker:   time.NewTicker(h.pingInterval),
		CloseChan:    make(chan struct{}),
		channels:     make(map[string]struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.clientsMux.Lock()
		if client, exists := h.clients[userID]; exists {
			client.LastPong = time.Now()
		}
		h.clientsMux.Unlock()
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	h.clients[userID] = clientConn
	count := len(h.clients)
	h.clientsMux.Unlock()

	go h.pingRoutine(clientConn)

	log.Printf("User %s connected to hub (total: %d, gzip: %v)", userID, count, supportsGzip)
}

// Unregister removes a client connection
func (h *Hub) Unregister(userID string) {
	h.clientsMux.Lock()
	if client, exists := h.clients[userID]; exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
	}
	delete(h.clients, userID)
	count := len(h.clients)
	h.clientsMux.Unlock()
	log.Printf("User %s disconnected from hub (total: %d)", userID, count)
}

// Subscribe adds a channel to the connection's watch set. Clients subscribe
// to the channel they are viewing plus any open thread's channel.
func (h *Hub) Subscribe(userID, channelID string) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	if client, exists := h.clients[userID]; exists {
		client.channels[channelID] = struct{}{}
	}
}

// Unsubscribe removes a channel from the connection's watch set.
func (h *Hub) Unsubscribe(userID, channelID string) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	if client, exists := h.clients[userID]; exists {
		delete(client.channels, channelID)
	}
}

// BroadcastToChannel sends an event to every connection subscribed to the
// channel, except the originating user. The sender already applied the
// change optimistically; echoing it back would double-apply.
func (h *Hub) BroadcastToChannel(channelID string, excludeUserID string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling broadcast data: %v", err)
		return
	}

	h.clientsMux.RLock()
	targets := make([]*ClientConnection, 0, len(h.clients))
	for userID, client := range h.clients {
		if userID == excludeUserID {
			continue
		}
		if _, subscribed := client.channels[channelID]; subscribed {
			targets = append(targets, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range targets {
		if err := h.writeFrame(client, jsonData); err != nil {
			log.Printf("Error broadcasting to user %s: %v", client.UserID, err)
			h.Unregister(client.UserID)
		}
	}
}

// writeFrame writes a JSON payload, gzipping when the client supports it and
// compression actually helps (> 512 bytes).
func (h *Hub) writeFrame(client *ClientConnection, jsonData []byte) error {
	finalData := jsonData
	frameType := websocket.TextMessage
	if client.SupportsGzip && len(jsonData) > 512 {
		compressed, err := compressData(jsonData)
		if err == nil && len(compressed) < len(jsonData) {
			finalData = compressed
			frameType = websocket.BinaryMessage
		}
	}

	client.writeMux.Lock()
	defer client.writeMux.Unlock()
	return client.Conn.WriteMessage(frameType, finalData)
}

// OnlineUsers returns the ids of users connected to this process. Presence
// across processes comes from the presence cache.
func (h *Hub) OnlineUsers() []string {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	users := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	return users
}

// Count returns the number of live connections, reported by the health
// endpoint.
func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %s: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.clientsMux.RLock()
			_, exists := h.clients[client.UserID]
			h.clientsMux.RUnlock()

			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for user %s: %v", client.UserID, err)
				h.Unregister(client.UserID)
				return
			}
		}
	}
}

// connectionHealthChecker monitors connection health and removes dead connections
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.clientsMux.RLock()
		deadConnections := make([]string, 0)
		now := time.Now()

		for userID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, userID)
			}
		}
		h.clientsMux.RUnlock()

		for _, userID := range deadConnections {
			log.Printf("Removing dead connection for user %s (no pong received)", userID)
			h.Unregister(userID)
		}
	}
}

// compressData compresses data using gzip
func compressData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)

	if _, err := gzipWriter.Write(data); err != nil {
		return nil, err
	}

	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecompressMessage decompresses a gzip binary frame from a client
func DecompressMessage(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
