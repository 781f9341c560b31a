package contacts_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wavelink/server/internal/models"
	"wavelink/server/internal/storage"
)

// fakeStore is an in-memory Store with the same contract as the pgx
// implementation, used for end-to-end scenarios (request -> accept -> edges).
type fakeStore struct {
	profiles map[string]models.Profile
	requests map[string]*models.ContactRequest
	edges    map[string]map[string]time.Time // user_id -> contact_id -> added_at
	nextID   int
}

func newFakeStore(profiles ...models.Profile) *fakeStore {
	f := &fakeStore{
		profiles: make(map[string]models.Profile),
		requests: make(map[string]*models.ContactRequest),
		edges:    make(map[string]map[string]time.Time),
	}
	for _, p := range profiles {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeStore) FindProfileByHandle(_ context.Context, handle string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if (p.Username != nil && *p.Username == handle) || p.Email == handle {
			cp := p
			return &cp, nil
		}
	}
	return nil, storage.ErrNoRows
}

func (f *fakeStore) GetProfilesByIDs(_ context.Context, ids []string) (map[string]models.Profile, error) {
	out := make(map[string]models.Profile, len(ids))
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) PendingRequestExists(_ context.Context, senderID, recipientID string) (bool, error) {
	for _, r := range f.requests {
		if r.SenderID == senderID && r.RecipientID == recipientID && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateContactRequest(_ context.Context, senderID, recipientID string) (*models.ContactRequest, error) {
	f.nextID++
	r := &models.ContactRequest{
		ID:          fmt.Sprintf("req-%d", f.nextID),
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.RequestPending,
		CreatedAt:   time.Now(),
	}
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeStore) ListPendingRequests(_ context.Context, recipientID string) ([]models.ContactRequest, error) {
	var out []models.ContactRequest
	for _, r := range f.requests {
		if r.RecipientID == recipientID && r.Status == models.RequestPending {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetContactRequest(_ context.Context, id string) (*models.ContactRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, storage.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) AcceptContactRequest(_ context.Context, requestID string) error {
	r, ok := f.requests[requestID]
	if !ok || r.Status != models.RequestPending {
		return storage.ErrNoRows
	}
	r.Status = models.RequestAccepted
	f.addEdge(r.RecipientID, r.SenderID)
	f.addEdge(r.SenderID, r.RecipientID)
	return nil
}

func (f *fakeStore) RejectContactRequest(_ context.Context, requestID string) error {
	r, ok := f.requests[requestID]
	if !ok || r.Status != models.RequestPending {
		return storage.ErrNoRows
	}
	r.Status = models.RequestRejected
	return nil
}

func (f *fakeStore) ListContactProfiles(_ context.Context, userID, query string) ([]models.Profile, error) {
	var out []models.Profile
	for contactID := range f.edges[userID] {
		if p, ok := f.profiles[contactID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) addEdge(userID, contactID string) {
	if f.edges[userID] == nil {
		f.edges[userID] = make(map[string]time.Time)
	}
	// Duplicate edge inserts are absorbed, mirroring ON CONFLICT DO NOTHING.
	if _, ok := f.edges[userID][contactID]; !ok {
		f.edges[userID][contactID] = time.Now()
	}
}

// edgeCount counts stored edge rows across all users.
func (f *fakeStore) edgeCount() int {
	n := 0
	for _, m := range f.edges {
		n += len(m)
	}
	return n
}

func strptr(s string) *string { return &s }

func profileWith(id, username string) models.Profile {
	return models.Profile{
		ID:       id,
		Username: strptr(username),
		Email:    username + "@example.com",
	}
}
