package testutil

import (
	"context"

	"lexicards/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockStateRepository is a mock for repository.StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Load(ctx context.Context, key string) (map[string]domain.ReviewState, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ReviewState), args.Error(1)
}

func (m *MockStateRepository) Save(ctx context.Context, key string, states map[string]domain.ReviewState) error {
	args := m.Called(ctx, key, states)
	return args.Error(0)
}

func (m *MockStateRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStateRepository) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockStateStore is a mock for review.StateStore
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Save(ctx context.Context, states map[string]domain.ReviewState) error {
	args := m.Called(ctx, states)
	return args.Error(0)
}

// MockNotifier is a mock for reminder.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Accepts(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

func (m *MockNotifier) NotifyDue(key string, count int) error {
	args := m.Called(key, count)
	return args.Error(0)
}
