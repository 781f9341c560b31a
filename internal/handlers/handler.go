package handlers

import (
	"wavelink/server/internal/assistant"
	"wavelink/server/internal/chat"
	"wavelink/server/internal/contacts"
	"wavelink/server/internal/storage"
	ws "wavelink/server/internal/websocket"
)

// Handler bundles the services the HTTP layer dispatches to.
type Handler struct {
	Store     *storage.Service
	Contacts  *contacts.Service
	Chat      *chat.Service
	Assistant *assistant.Client
	Presence  *storage.Presence
	Hub       *ws.Hub
}

func New(store *storage.Service, contactsSvc *contacts.Service, chatSvc *chat.Service,
	assistantClient *assistant.Client, presence *storage.Presence, hub *ws.Hub) *Handler {
	return &Handler{
		Store:     store,
		Contacts:  contactsSvc,
		Chat:      chatSvc,
		Assistant: assistantClient,
		Presence:  presence,
		Hub:       hub,
	}
}
