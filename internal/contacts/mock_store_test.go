package contacts_test

import (
	"context"

	"wavelink/server/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	args := m.Called(handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockStore) GetProfilesByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.Profile), args.Error(1)
}

func (m *MockStore) PendingRequestExists(ctx context.Context, senderID, recipientID string) (bool, error) {
	args := m.Called(senderID, recipientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) CreateContactRequest(ctx context.Context, senderID, recipientID string) (*models.ContactRequest, error) {
	args := m.Called(senderID, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactRequest), args.Error(1)
}

func (m *MockStore) ListPendingRequests(ctx context.Context, recipientID string) ([]models.ContactRequest, error) {
	args := m.Called(recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContactRequest), args.Error(1)
}

func (m *MockStore) GetContactRequest(ctx context.Context, id string) (*models.ContactRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactRequest), args.Error(1)
}

func (m *MockStore) AcceptContactRequest(ctx context.Context, requestID string) error {
	args := m.Called(requestID)
	return args.Error(0)
}

func (m *MockStore) RejectContactRequest(ctx context.Context, requestID string) error {
	args := m.Called(requestID)
	return args.Error(0)
}

func (m *MockStore) ListContactProfiles(ctx context.Context, userID, query string) ([]models.Profile, error) {
	args := m.Called(userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ContactRequestCreated(recipientID string, request models.ContactRequestWithSender) {
	m.Called(recipientID, request)
}

func (m *MockNotifier) ContactsChanged(userIDs ...string) {
	m.Called(userIDs)
}
