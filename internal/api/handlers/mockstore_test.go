package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/clicklar/internal/store"
)

// mockStore mocks the store methods exercised by failure-path tests.
// Calling any other method panics on the nil embedded Store.
type mockStore struct {
	mock.Mock
	store.Store
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

func (m *mockStore) ListServices(ctx context.Context, q *store.ServiceQuery) ([]store.Service, error) {
	args := m.Called(ctx, q)
	services, _ := args.Get(0).([]store.Service)
	return services, args.Error(1)
}

func (m *mockStore) GetUser(ctx context.Context, id string) (*store.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*store.User)
	return u, args.Error(1)
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*store.User)
	return u, args.Error(1)
}
