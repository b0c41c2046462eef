package ws

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/websocket/v2"

	"github.com/Sakilalakmal/nexus-app/internal/cache"
)

// MessageContext provides all dependencies needed for message processing
type MessageContext struct {
	UserID   string
	Conn     *websocket.Conn
	Hub      *Hub
	Presence *cache.PresenceCache
}

// Message interface for all WebSocket message types
type Message interface {
	GetType() string
	Process(ctx *MessageContext) error
}

// SerializedMessage is the wire format wrapper
type SerializedMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// messageFactories maps wire type names to constructors. Clients only send
// subscription management and keepalive frames; everything else travels over
// the REST API.
var messageFactories = map[string]func() Message{
	"subscribe":   func() Message { return &MessageSubscribe{} },
	"unsubscribe": func() Message { return &MessageUnsubscribe{} },
	"ping":        func() Message { return &MessagePing{} },
	"pong":        func() Message { return &MessagePong{} },
}

// Deserialize decodes a client frame into its concrete message type. An
// absent payload is fine: keepalives carry none.
func Deserialize(jsonBytes []byte) (Message, error) {
	var wrapper SerializedMessage
	if err := json.Unmarshal(jsonBytes, &wrapper); err != nil {
		return nil, err
	}

	factory, ok := messageFactories[wrapper.Type]
	if !ok {
		return nil, fmt.Errorf("unknown message type: %s", wrapper.Type)
	}

	msg := factory()
	if len(wrapper.Payload) > 0 {
		if err := json.Unmarshal(wrapper.Payload, msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// ErrorResponse is sent when message processing fails
type ErrorResponse struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// SendError sends an error response to the client
func SendError(conn *websocket.Conn, code, message, details string) error {
	errResp := ErrorResponse{
		Type:    "error",
		Error:   message,
		Code:    code,
		Details: details,
	}
	return conn.WriteJSON(errResp)
}
