package websocket

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// Client represents a WebSocket client connection
type Client struct {
	ID   string // User ID
	Conn *websocket.Conn
	Hub  *Hub
	Send chan []byte
}

// NewClient creates a new WebSocket client
func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   userID,
		Conn: conn,
		Hub:  hub,
		Send: make(chan []byte, 256),
	}
}

// ReadPump handles incoming messages from the client
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		// Pongs double as presence heartbeats.
		c.Hub.heartbeat(c.ID)
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user", c.ID).Msg("websocket read error")
			}
			break
		}

		var incoming IncomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			log.Warn().Err(err).Str("user", c.ID).Msg("failed to parse ws message")
			continue
		}

		c.handleIncomingMessage(incoming)
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("user", c.ID).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleIncomingMessage processes different types of incoming messages
func (c *Client) handleIncomingMessage(msg IncomingMessage) {
	switch msg.Type {
	case EventTypingStart, EventTypingStop:
		c.handleTyping(msg.Type, msg.Payload)
	case EventCallOffer:
		c.handleCallOffer(msg.Payload)
	default:
		log.Debug().Str("type", string(msg.Type)).Msg("unknown ws message type")
	}
}

// handleTyping relays a typing indicator to the rest of the room.
func (c *Client) handleTyping(eventType EventType, payload map[string]interface{}) {
	roomID, _ := payload["roomId"].(string)
	if roomID == "" {
		roomID = "general"
	}

	c.Hub.BroadcastAll(WSMessage{
		Type: eventType,
		Payload: TypingPayload{
			UserID: c.ID,
			RoomID: roomID,
		},
		Timestamp: time.Now(),
	}, c.ID)
}

// handleCallOffer forwards a call intent. Only the offer travels over the
// channel; accept, decline and hang-up remain local to the clients.
func (c *Client) handleCallOffer(payload map[string]interface{}) {
	callType, _ := payload["callType"].(string)
	recipientID, _ := payload["recipientId"].(string)

	if callType != "audio" && callType != "video" {
		log.Warn().Str("user", c.ID).Str("callType", callType).Msg("ignoring call offer with invalid type")
		return
	}

	c.Hub.relayCallOffer(c.ID, callType, recipientID)
}

// SendMessage sends a message to the client
func (c *Client) SendMessage(msg WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
	default:
		c.Hub.Unregister <- c
	}

	return nil
}
