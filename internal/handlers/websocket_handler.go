package handlers

import (
	"log"
	"os"

	"github.com/gofiber/websocket/v2"

	"github.com/Sakilalakmal/nexus-app/internal/cache"
	"github.com/Sakilalakmal/nexus-app/internal/handlers/ws"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	presence *cache.PresenceCache
}

func NewWebSocketHandler(presence *cache.PresenceCache) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      ws.NewHub(),
		presence: presence,
	}
}

// GetHub returns the hub instance (useful for sending events from other handlers)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

// connLocals is the subset of websocket.Conn used to read auth locals.
type connLocals interface {
	Locals(key string) interface{}
}

// connUserID reads the authenticated user id that AuthRequired stored on the
// upgraded connection. A miss means the route was mounted without the auth
// middleware.
func connUserID(c connLocals) (string, bool) {
	userID, ok := c.Locals("userID").(string)
	return userID, ok && userID != ""
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, ok := connUserID(c)
	if !ok {
		log.Println("Rejecting WebSocket connection without user identity")
		_ = c.Close()
		return
	}
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	// Check if client supports gzip compression (via query param or header)
	supportsGzip := c.Query("gzip") == "1" || c.Headers("X-Supports-Gzip") == "1"

	// Register client in hub
	h.hub.Register(userID, c, supportsGzip)

	go func() {
		if err := h.presence.SetOnline(userID); err != nil {
			log.Printf("Failed to set user %s online: %v", userID, err)
		}
	}()

	defer func() {
		h.hub.Unregister(userID)
		go func() {
			if err := h.presence.SetOffline(userID); err != nil {
				log.Printf("Failed to set user %s offline: %v", userID, err)
			}
		}()
	}()

	log.Printf("User %s connected via WebSocket", userID)

	ctx := &ws.MessageContext{
		UserID:   userID,
		Conn:     c,
		Hub:      h.hub,
		Presence: h.presence,
	}

	// Handle incoming messages
	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %s: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%s frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		// Decompress if binary message (gzip compressed)
		if messageType == websocket.BinaryMessage {
			decompressed, err := ws.DecompressMessage(messageBytes)
			if err != nil {
				log.Printf("Error decompressing message from user %s: %v", userID, err)
				ws.SendError(c, "decompression_failed", "Failed to decompress message", err.Error())
				continue
			}
			messageBytes = decompressed
		}

		// Deserialize message
		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %s: %v", userID, err)
			ws.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		// Process message
		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %s: %v", msg.GetType(), userID, err)
			ws.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("User %s disconnected from WebSocket", userID)
}
