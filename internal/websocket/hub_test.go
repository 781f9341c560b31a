package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"wavelink/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) SetProfileStatus(ctx context.Context, userID, status string) error {
	args := m.Called(userID, status)
	return args.Error(0)
}

func (m *MockStore) ListContactIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockPresence struct {
	mock.Mock
}

func (m *MockPresence) MarkOnline(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockPresence) Heartbeat(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockPresence) MarkOffline(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func newTestClient(userID string, hub *Hub) *Client {
	return &Client{ID: userID, Hub: hub, Send: make(chan []byte, 256)}
}

// drain decodes the next buffered frame on the client's send channel.
func drain(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("expected a buffered frame, channel was empty")
		return WSMessage{}
	}
}

func TestRegister_MarksOnlineAndNotifiesContacts(t *testing.T) {
	store := new(MockStore)
	presence := new(MockPresence)
	hub := NewHub(store, presence)

	contact := newTestClient("user-b", hub)
	hub.Clients["user-b"] = contact

	store.On("SetProfileStatus", "user-a", "Online").Return(nil)
	presence.On("MarkOnline", "user-a").Return(nil)
	store.On("ListContactIDs", "user-a").Return([]string{"user-b"}, nil)

	hub.registerClient(newTestClient("user-a", hub))

	assert.True(t, hub.IsUserOnline("user-a"))
	store.AssertExpectations(t)
	presence.AssertExpectations(t)

	msg := drain(t, contact)
	assert.Equal(t, EventUserOnline, msg.Type)
}

func TestRegister_ReplacesExistingConnection(t *testing.T) {
	store := new(MockStore)
	hub := NewHub(store, nil)

	store.On("SetProfileStatus", "user-a", "Online").Return(nil)
	store.On("ListContactIDs", "user-a").Return([]string{}, nil)

	first := newTestClient("user-a", hub)
	second := newTestClient("user-a", hub)

	hub.registerClient(first)
	hub.registerClient(second)

	assert.Equal(t, 1, hub.GetOnlineCount())
	assert.Same(t, second, hub.Clients["user-a"])

	// The replaced connection's send channel is closed so its write pump exits.
	_, open := <-first.Send
	assert.False(t, open)
}

func TestUnregister_MarksOfflineAndNotifiesContacts(t *testing.T) {
	store := new(MockStore)
	presence := new(MockPresence)
	hub := NewHub(store, presence)

	client := newTestClient("user-a", hub)
	contact := newTestClient("user-b", hub)
	hub.Clients["user-a"] = client
	hub.Clients["user-b"] = contact

	store.On("SetProfileStatus", "user-a", "Offline").Return(nil)
	presence.On("MarkOffline", "user-a").Return(nil)
	store.On("ListContactIDs", "user-a").Return([]string{"user-b"}, nil)

	hub.unregisterClient(client)

	assert.False(t, hub.IsUserOnline("user-a"))
	store.AssertExpectations(t)
	presence.AssertExpectations(t)

	msg := drain(t, contact)
	assert.Equal(t, EventUserOffline, msg.Type)
}

// A stale unregister from a replaced connection must not evict the live one.
func TestUnregister_IgnoresStaleClient(t *testing.T) {
	store := new(MockStore)
	hub := NewHub(store, nil)

	stale := newTestClient("user-a", hub)
	live := newTestClient("user-a", hub)
	hub.Clients["user-a"] = live

	hub.unregisterClient(stale)

	assert.True(t, hub.IsUserOnline("user-a"))
	store.AssertNotCalled(t, "SetProfileStatus", mock.Anything, mock.Anything)
}

func TestBroadcastToUser_OnlyTargetReceives(t *testing.T) {
	hub := NewHub(new(MockStore), nil)

	target := newTestClient("user-a", hub)
	other := newTestClient("user-b", hub)
	hub.Clients["user-a"] = target
	hub.Clients["user-b"] = other

	hub.BroadcastToUser("user-a", WSMessage{Type: EventContactsChanged})

	msg := drain(t, target)
	assert.Equal(t, EventContactsChanged, msg.Type)
	assert.Empty(t, other.Send)
}

// Room fanout includes the sender; clients drop their own optimistic echo by
// clientId instead.
func TestMessageCreated_FansOutToSenderToo(t *testing.T) {
	hub := NewHub(new(MockStore), nil)

	sender := newTestClient("user-a", hub)
	peer := newTestClient("user-b", hub)
	hub.Clients["user-a"] = sender
	hub.Clients["user-b"] = peer

	hub.MessageCreated("general", models.MessageWithSender{
		ID:         "msg-1",
		SenderID:   "user-a",
		ChatRoomID: "general",
		Content:    "hello",
		SenderName: "alice",
	})

	for _, c := range []*Client{sender, peer} {
		msg := drain(t, c)
		assert.Equal(t, EventMessageNew, msg.Type)
	}
}

func TestContactRequestCreated_TargetsRecipient(t *testing.T) {
	hub := NewHub(new(MockStore), nil)

	recipient := newTestClient("user-b", hub)
	bystander := newTestClient("user-c", hub)
	hub.Clients["user-b"] = recipient
	hub.Clients["user-c"] = bystander

	hub.ContactRequestCreated("user-b", models.ContactRequestWithSender{ID: "req-1"})

	msg := drain(t, recipient)
	assert.Equal(t, EventContactRequest, msg.Type)
	assert.Empty(t, bystander.Send)
}

func TestRelayCallOffer_TargetedRecipient(t *testing.T) {
	store := new(MockStore)
	hub := NewHub(store, nil)

	caller := newTestClient("user-a", hub)
	recipient := newTestClient("user-b", hub)
	hub.Clients["user-a"] = caller
	hub.Clients["user-b"] = recipient

	username := "alice"
	store.On("GetProfileByID", "user-a").Return(&models.Profile{ID: "user-a", Username: &username}, nil)

	hub.relayCallOffer("user-a", "video", "user-b")

	msg := drain(t, recipient)
	assert.Equal(t, EventCallOffer, msg.Type)
	assert.Empty(t, caller.Send)

	payload, err := json.Marshal(msg.Payload)
	require.NoError(t, err)
	var offer CallOfferPayload
	require.NoError(t, json.Unmarshal(payload, &offer))
	assert.Equal(t, "video", offer.CallType)
	assert.Equal(t, "alice", offer.CallerName)
}

func TestRelayCallOffer_GeneralExcludesCaller(t *testing.T) {
	store := new(MockStore)
	hub := NewHub(store, nil)

	caller := newTestClient("user-a", hub)
	peer := newTestClient("user-b", hub)
	hub.Clients["user-a"] = caller
	hub.Clients["user-b"] = peer

	store.On("GetProfileByID", "user-a").Return(nil, context.DeadlineExceeded)

	hub.relayCallOffer("user-a", "audio", "general")

	msg := drain(t, peer)
	assert.Equal(t, EventCallOffer, msg.Type)
	assert.Empty(t, caller.Send)

	payload, err := json.Marshal(msg.Payload)
	require.NoError(t, err)
	var offer CallOfferPayload
	require.NoError(t, json.Unmarshal(payload, &offer))
	// Profile lookup failed, so the caller falls back to the default identity.
	assert.Equal(t, "Unknown User", offer.CallerName)
	assert.Contains(t, offer.CallerAvatar, "user-a")
}

func TestGetOnlineUsers(t *testing.T) {
	hub := NewHub(new(MockStore), nil)
	hub.Clients["user-a"] = newTestClient("user-a", hub)
	hub.Clients["user-b"] = newTestClient("user-b", hub)

	users := hub.GetOnlineUsers()

	assert.ElementsMatch(t, []string{"user-a", "user-b"}, users)
	assert.Equal(t, 2, hub.GetOnlineCount())
}

func TestHeartbeat_RefreshesPresence(t *testing.T) {
	presence := new(MockPresence)
	hub := NewHub(new(MockStore), presence)

	presence.On("Heartbeat", "user-a").Return(nil)

	hub.heartbeat("user-a")

	presence.AssertExpectations(t)
}
