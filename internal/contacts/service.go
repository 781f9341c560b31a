package contacts

import (
	"context"
	"errors"
	"strings"

	"wavelink/server/internal/models"
	"wavelink/server/internal/storage"

	"github.com/rs/zerolog/log"
)

// Store is the persistence surface the contact graph needs.
type Store interface {
	FindProfileByHandle(ctx context.Context, handle string) (*models.Profile, error)
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error)
	PendingRequestExists(ctx context.Context, senderID, recipientID string) (bool, error)
	CreateContactRequest(ctx context.Context, senderID, recipientID string) (*models.ContactRequest, error)
	ListPendingRequests(ctx context.Context, recipientID string) ([]models.ContactRequest, error)
	GetContactRequest(ctx context.Context, id string) (*models.ContactRequest, error)
	AcceptContactRequest(ctx context.Context, requestID string) error
	RejectContactRequest(ctx context.Context, requestID string) error
	ListContactProfiles(ctx context.Context, userID, query string) ([]models.Profile, error)
}

// Notifier pushes realtime events when the graph changes. Implemented by the
// websocket hub; failures are advisory.
type Notifier interface {
	ContactRequestCreated(recipientID string, request models.ContactRequestWithSender)
	ContactsChanged(userIDs ...string)
}

// PresenceChecker answers whether a user is currently online.
type PresenceChecker interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// Service manages pending requests and confirmed bidirectional contact edges.
type Service struct {
	store    Store
	notifier Notifier
	presence PresenceChecker
}

func NewService(store Store, notifier Notifier, presence PresenceChecker) *Service {
	return &Service{store: store, notifier: notifier, presence: presence}
}

// SendRequest resolves targetHandle (username or email) and inserts a pending
// request. Validation and duplicate checks run before any write.
func (s *Service) SendRequest(ctx context.Context, currentUser, targetHandle string) (*models.ContactRequest, error) {
	handle := strings.TrimSpace(targetHandle)
	if handle == "" {
		return nil, ErrEmptyHandle
	}

	target, err := s.store.FindProfileByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if target.ID == currentUser {
		return nil, ErrSelfTarget
	}

	exists, err := s.store.PendingRequestExists(ctx, currentUser, target.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRequest
	}

	request, err := s.store.CreateContactRequest(ctx, currentUser, target.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		sender := models.ProfileSummary{
			ID:          currentUser,
			DisplayName: "Unknown User",
			AvatarURL:   models.FallbackAvatar(currentUser),
			Status:      "Available",
		}
		if profiles, err := s.store.GetProfilesByIDs(ctx, []string{currentUser}); err == nil {
			if p, ok := profiles[currentUser]; ok {
				sender = p.ToSummary(true)
			}
		}
		s.notifier.ContactRequestCreated(target.ID, models.ContactRequestWithSender{
			ID:        request.ID,
			Sender:    sender,
			CreatedAt: request.CreatedAt,
		})
	}

	return request, nil
}

// ListIncoming returns pending requests addressed to currentUser, newest
// first, each joined with the sender's display summary.
func (s *Service) ListIncoming(ctx context.Context, currentUser string) ([]models.ContactRequestWithSender, error) {
	requests, err := s.store.ListPendingRequests(ctx, currentUser)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(requests))
	seen := make(map[string]struct{}, len(requests))
	for _, r := range requests {
		if _, ok := seen[r.SenderID]; ok {
			continue
		}
		seen[r.SenderID] = struct{}{}
		senderIDs = append(senderIDs, r.SenderID)
	}

	profiles, err := s.store.GetProfilesByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.ContactRequestWithSender, 0, len(requests))
	for _, r := range requests {
		sender := models.ProfileSummary{
			ID:          r.SenderID,
			DisplayName: "Unknown User",
			AvatarURL:   models.FallbackAvatar(r.SenderID),
			Status:      "Available",
		}
		if p, ok := profiles[r.SenderID]; ok {
			sender = p.ToSummary(s.online(ctx, r.SenderID))
		}
		out = append(out, models.ContactRequestWithSender{
			ID:        r.ID,
			Sender:    sender,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// Respond accepts or declines a pending request. Only the recipient of a
// still-pending request may respond; anything else is NotFound.
func (s *Service) Respond(ctx context.Context, currentUser, requestID string, accept bool) error {
	request, err := s.store.GetContactRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if request.RecipientID != currentUser || request.Status != models.RequestPending {
		return ErrNotFound
	}

	if accept {
		if err := s.store.AcceptContactRequest(ctx, requestID); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if s.notifier != nil {
			s.notifier.ContactsChanged(request.SenderID, request.RecipientID)
		}
		return nil
	}

	if err := s.store.RejectContactRequest(ctx, requestID); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListContacts returns the profiles reachable via a contact edge from
// currentUser, mapped to display fields with fallbacks resolved.
func (s *Service) ListContacts(ctx context.Context, currentUser, query string) ([]models.ProfileSummary, error) {
	profiles, err := s.store.ListContactProfiles(ctx, currentUser, query)
	if err != nil {
		return nil, err
	}

	out := make([]models.ProfileSummary, 0, len(profiles))
	for i := range profiles {
		p := profiles[i]
		out = append(out, p.ToSummary(s.online(ctx, p.ID)))
	}
	return out, nil
}

func (s *Service) online(ctx context.Context, userID string) bool {
	if s.presence == nil {
		return false
	}
	online, err := s.presence.IsOnline(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("presence lookup failed")
		return false
	}
	return online
}
