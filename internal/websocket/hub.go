package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wavelink/server/internal/metrics"
	"wavelink/server/internal/models"

	"github.com/rs/zerolog/log"
)

// Store is the persistence surface the hub needs for presence side effects
// and event enrichment.
type Store interface {
	SetProfileStatus(ctx context.Context, userID, status string) error
	ListContactIDs(ctx context.Context, userID string) ([]string, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

// PresenceStore keeps the ephemeral online flags (TTL'd, heartbeat-refreshed).
type PresenceStore interface {
	MarkOnline(ctx context.Context, userID string) error
	Heartbeat(ctx context.Context, userID string) error
	MarkOffline(ctx context.Context, userID string) error
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients mapped by user ID
	Clients map[string]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	store    Store
	presence PresenceStore

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(store Store, presence PresenceStore) *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		store:      store,
		presence:   presence,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	// If user already has a connection, close the old one
	if existingClient, ok := h.Clients[client.ID]; ok {
		close(existingClient.Send)
	}
	h.Clients[client.ID] = client
	h.mu.Unlock()

	metrics.WsConnections.Inc()

	ctx := context.Background()

	// Status write and presence flag are best-effort: a failure is logged and
	// never blocks the connection.
	if err := h.store.SetProfileStatus(ctx, client.ID, "Online"); err != nil {
		log.Warn().Err(err).Str("user", client.ID).Msg("failed to write online status")
	}
	if h.presence != nil {
		if err := h.presence.MarkOnline(ctx, client.ID); err != nil {
			log.Warn().Err(err).Str("user", client.ID).Msg("failed to mark presence online")
		}
	}

	h.broadcastPresence(client.ID, true)

	log.Info().Str("user", client.ID).Msg("client connected")
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if current, ok := h.Clients[client.ID]; !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.Clients, client.ID)
	close(client.Send)
	h.mu.Unlock()

	metrics.WsConnections.Dec()

	ctx := context.Background()

	if err := h.store.SetProfileStatus(ctx, client.ID, "Offline"); err != nil {
		log.Warn().Err(err).Str("user", client.ID).Msg("failed to write offline status")
	}
	if h.presence != nil {
		if err := h.presence.MarkOffline(ctx, client.ID); err != nil {
			log.Warn().Err(err).Str("user", client.ID).Msg("failed to mark presence offline")
		}
	}

	h.broadcastPresence(client.ID, false)

	log.Info().Str("user", client.ID).Msg("client disconnected")
}

// heartbeat refreshes the TTL on the user's presence flag.
func (h *Hub) heartbeat(userID string) {
	if h.presence == nil {
		return
	}
	if err := h.presence.Heartbeat(context.Background(), userID); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("presence heartbeat failed")
	}
}

// broadcastPresence sends the user's online/offline status to their contacts
func (h *Hub) broadcastPresence(userID string, isOnline bool) {
	contactIDs, err := h.store.ListContactIDs(context.Background(), userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("failed to list contacts for presence fanout")
		return
	}

	eventType := EventUserOnline
	if !isOnline {
		eventType = EventUserOffline
	}

	h.BroadcastToUsers(contactIDs, WSMessage{
		Type: eventType,
		Payload: PresencePayload{
			UserID:   userID,
			IsOnline: isOnline,
			LastSeen: time.Now(),
		},
		Timestamp: time.Now(),
	})
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID string, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal ws message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.Clients[userID]; ok {
		select {
		case client.Send <- data:
		default:
			log.Warn().Str("user", userID).Msg("dropping ws message, send buffer full")
		}
	}
}

// BroadcastToUsers sends a message to multiple users
func (h *Hub) BroadcastToUsers(userIDs []string, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal ws message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		if client, ok := h.Clients[userID]; ok {
			select {
			case client.Send <- data:
			default:
				log.Warn().Str("user", userID).Msg("dropping ws message, send buffer full")
			}
		}
	}
}

// BroadcastAll sends a message to every connected client, optionally skipping
// one user id. With a single shared room, room fanout is everyone.
func (h *Hub) BroadcastAll(message WSMessage, excludeUserID string) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal ws message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, client := range h.Clients {
		if userID == excludeUserID {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Warn().Str("user", userID).Msg("dropping ws message, send buffer full")
		}
	}
}

// MessageCreated relays a freshly inserted room message to all subscribers.
// The sender is included: clients dedupe their own optimistic echo by
// clientId, not by sender id.
func (h *Hub) MessageCreated(roomID string, message models.MessageWithSender) {
	metrics.MessagesTotal.Inc()
	h.BroadcastAll(WSMessage{
		Type:      EventMessageNew,
		Payload:   message,
		Timestamp: time.Now(),
	}, "")
}

// ContactRequestCreated notifies the recipient of a new pending request.
func (h *Hub) ContactRequestCreated(recipientID string, request models.ContactRequestWithSender) {
	h.BroadcastToUser(recipientID, WSMessage{
		Type:      EventContactRequest,
		Payload:   ContactRequestPayload{Request: request},
		Timestamp: time.Now(),
	})
}

// ContactsChanged tells the affected users to refresh their contact lists.
func (h *Hub) ContactsChanged(userIDs ...string) {
	h.BroadcastToUsers(userIDs, WSMessage{
		Type:      EventContactsChanged,
		Payload:   ContactsChangedPayload{UserIDs: userIDs},
		Timestamp: time.Now(),
	})
}

// relayCallOffer enriches a call intent with the caller's display info and
// forwards it. Declines and hang-ups are not relayed back.
func (h *Hub) relayCallOffer(callerID, callType, recipientID string) {
	callerName := "Unknown User"
	callerAvatar := models.FallbackAvatar(callerID)
	if profile, err := h.store.GetProfileByID(context.Background(), callerID); err == nil && profile != nil {
		callerName = profile.DisplayName()
		callerAvatar = profile.Avatar()
	}

	message := WSMessage{
		Type: EventCallOffer,
		Payload: CallOfferPayload{
			CallType:     callType,
			CallerID:     callerID,
			CallerName:   callerName,
			CallerAvatar: callerAvatar,
			RecipientID:  recipientID,
		},
		Timestamp: time.Now(),
	}

	if recipientID == "" || recipientID == "general" {
		h.BroadcastAll(message, callerID)
		return
	}
	h.BroadcastToUser(recipientID, message)
}

// IsUserOnline checks if a user is currently connected to this process.
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.Clients[userID]
	return ok
}

// GetOnlineUsers returns a list of currently online user IDs
func (h *Hub) GetOnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userIDs := make([]string, 0, len(h.Clients))
	for userID := range h.Clients {
		userIDs = append(userIDs, userID)
	}

	return userIDs
}

// GetOnlineCount returns the number of currently connected clients
func (h *Hub) GetOnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.Clients)
}
