package chat

import (
	"context"
	"strings"

	"wavelink/server/internal/models"

	"github.com/rs/zerolog/log"
)

// GeneralRoom is the single shared room every user participates in.
const GeneralRoom = "general"

// Store is the persistence surface the message stream needs.
type Store interface {
	InsertMessage(ctx context.Context, m *models.Message) error
	ListMessages(ctx context.Context, roomID string) ([]models.Message, error)
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	MarkMessagesRead(ctx context.Context, roomID, readerID string) (int64, error)
}

// Broadcaster relays a freshly inserted message to room subscribers.
type Broadcaster interface {
	MessageCreated(roomID string, message models.MessageWithSender)
}

// Service appends and reads room messages and relays inserts in real time.
type Service struct {
	store       Store
	broadcaster Broadcaster
}

func NewService(store Store, broadcaster Broadcaster) *Service {
	return &Service{store: store, broadcaster: broadcaster}
}

// Post inserts a message and fans it out. Whitespace-only content is a no-op:
// no row, no error, nothing broadcast. The optional clientID travels with the
// broadcast so senders can drop their optimistic local echo by id instead of
// filtering on sender, which would also hide legitimate multi-device echoes.
func (s *Service) Post(ctx context.Context, senderID, roomID, content string, clientID *string) (*models.MessageWithSender, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	msg := &models.Message{
		SenderID:   senderID,
		ChatRoomID: roomID,
		ClientID:   clientID,
		Content:    content,
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	enriched := s.enrich(ctx, *msg)
	if s.broadcaster != nil {
		s.broadcaster.MessageCreated(roomID, enriched)
	}
	return &enriched, nil
}

// History returns room messages in ascending creation order with sender
// display info merged in. All distinct sender profiles are fetched in a
// single batched lookup.
func (s *Service) History(ctx context.Context, roomID string) ([]models.MessageWithSender, error) {
	messages, err := s.store.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.SenderID]; ok {
			continue
		}
		seen[m.SenderID] = struct{}{}
		senderIDs = append(senderIDs, m.SenderID)
	}

	profiles, err := s.store.GetProfilesByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.MessageWithSender, 0, len(messages))
	for _, m := range messages {
		out = append(out, withSender(m, lookupSender(profiles, m.SenderID)))
	}
	return out, nil
}

// MarkRead flips the read flag on room messages not sent by the reader.
func (s *Service) MarkRead(ctx context.Context, readerID, roomID string) (int64, error) {
	return s.store.MarkMessagesRead(ctx, roomID, readerID)
}

// enrich resolves the sender's display info for a single live message. A
// failed lookup substitutes "Unknown User" rather than dropping the message.
func (s *Service) enrich(ctx context.Context, m models.Message) models.MessageWithSender {
	profile, err := s.store.GetProfileByID(ctx, m.SenderID)
	if err != nil || profile == nil {
		if err != nil {
			log.Warn().Err(err).Str("sender", m.SenderID).Msg("sender profile lookup failed")
		}
		return withSender(m, nil)
	}
	return withSender(m, profile)
}

func lookupSender(profiles map[string]models.Profile, senderID string) *models.Profile {
	if p, ok := profiles[senderID]; ok {
		return &p
	}
	return nil
}

func withSender(m models.Message, sender *models.Profile) models.MessageWithSender {
	name := "Unknown User"
	avatar := models.FallbackAvatar(m.SenderID)
	if sender != nil {
		name = sender.DisplayName()
		avatar = sender.Avatar()
	}
	return models.MessageWithSender{
		ID:           m.ID,
		SenderID:     m.SenderID,
		ChatRoomID:   m.ChatRoomID,
		ClientID:     m.ClientID,
		Content:      m.Content,
		IsRead:       m.IsRead,
		CreatedAt:    m.CreatedAt,
		SenderName:   name,
		SenderAvatar: avatar,
	}
}
