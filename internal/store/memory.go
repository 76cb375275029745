package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/clicklar/internal/metrics"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]*User
	services   map[string]*Service
	categories map[string]struct{}
	now        func() time.Time
	newID      func() string
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// WithIDGenerator sets the ID source.
func WithIDGenerator(f func() string) MemoryOption {
	return func(m *MemoryStore) {
		m.newID = f
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		users:      make(map[string]*User),
		services:   make(map[string]*Service),
		categories: make(map[string]struct{}),
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// CreateUser assigns an ID and stores u. Emails are unique, ignoring case.
func (m *MemoryStore) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTakenLocked(u.Email, "") {
		return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
	}
	u.ID = m.newID()
	u.CreatedAt = m.now()
	m.users[u.ID] = cloneUser(u)
	m.updateGaugesLocked()
	return nil
}

// GetUser returns the user with id.
func (m *MemoryStore) GetUser(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return cloneUser(u), nil
}

// GetUserByEmail returns the user with email, ignoring case.
func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

// UpdateUser replaces the stored user with u.
func (m *MemoryStore) UpdateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[u.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}
	if m.emailTakenLocked(u.Email, u.ID) {
		return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
	}
	updated := cloneUser(u)
	updated.CreatedAt = existing.CreatedAt
	m.users[u.ID] = updated
	return nil
}

// DeleteUser removes the user, their services and their ratings.
func (m *MemoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	delete(m.users, id)
	for sid, s := range m.services {
		if s.OwnerID == id {
			delete(m.services, sid)
			continue
		}
		delete(s.Ratings, id)
	}
	m.updateGaugesLocked()
	return nil
}

// AddCategory registers a category name.
func (m *MemoryStore) AddCategory(_ context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[name] = struct{}{}
	return nil
}

// ListCategories returns registered categories plus any used by a service,
// sorted.
func (m *MemoryStore) ListCategories(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := maps.Clone(m.categories)
	for _, s := range m.services {
		set[s.Category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set)), nil
}

// CreateService assigns an ID and stores s.
func (m *MemoryStore) CreateService(_ context.Context, s *Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[s.OwnerID]; !ok {
		return fmt.Errorf("owner %s: %w", s.OwnerID, ErrNotFound)
	}
	s.ID = m.newID()
	s.CreatedAt = m.now()
	s.UpdatedAt = s.CreatedAt
	if s.Ratings == nil {
		s.Ratings = make(map[string]int)
	}
	m.services[s.ID] = cloneService(s)
	m.updateGaugesLocked()
	return nil
}

// GetService returns the service with id.
func (m *MemoryStore) GetService(_ context.Context, id string) (*Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.services[id]
	if !ok {
		return nil, fmt.Errorf("service %s: %w", id, ErrNotFound)
	}
	return cloneService(s), nil
}

// ListServices returns services matching q, newest first.
func (m *MemoryStore) ListServices(_ context.Context, q *ServiceQuery) ([]Service, error) {
	if q != nil {
		q.Normalize()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Service, 0, len(m.services))
	for _, s := range m.services {
		if q.Matches(s) {
			out = append(out, *cloneService(s))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListServicesByOwner returns ownerID's services, newest first.
func (m *MemoryStore) ListServicesByOwner(_ context.Context, ownerID string) ([]Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Service{}
	for _, s := range m.services {
		if s.OwnerID == ownerID {
			out = append(out, *cloneService(s))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// UpdateService replaces the editable fields of the stored service.
func (m *MemoryStore) UpdateService(_ context.Context, s *Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.services[s.ID]
	if !ok {
		return fmt.Errorf("service %s: %w", s.ID, ErrNotFound)
	}
	existing.Title = s.Title
	existing.Description = s.Description
	existing.Category = s.Category
	existing.Price = s.Price
	existing.UpdatedAt = m.now()
	*s = *cloneService(existing)
	return nil
}

// DeleteService removes the service with id.
func (m *MemoryStore) DeleteService(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.services[id]; !ok {
		return fmt.Errorf("service %s: %w", id, ErrNotFound)
	}
	delete(m.services, id)
	m.updateGaugesLocked()
	return nil
}

// RateService records userID's rating of serviceID.
func (m *MemoryStore) RateService(_ context.Context, serviceID, userID string, stars int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.services[serviceID]
	if !ok {
		return fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
	}
	s.Ratings[userID] = stars
	return nil
}

// Counts returns the number of users and services.
func (m *MemoryStore) Counts(context.Context) (users, services int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), len(m.services), nil
}

func (m *MemoryStore) emailTakenLocked(email, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) updateGaugesLocked() {
	metrics.RegisteredUsers.Set(float64(len(m.users)))
	metrics.PublishedServices.Set(float64(len(m.services)))
}

func sortNewestFirst(s []Service) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].CreatedAt.After(s[j].CreatedAt)
		}
		return s[i].ID < s[j].ID
	})
}

func cloneUser(u *User) *User {
	c := *u
	c.PasswordHash = slices.Clone(u.PasswordHash)
	return &c
}

func cloneService(s *Service) *Service {
	c := *s
	c.Ratings = maps.Clone(s.Ratings)
	if c.Ratings == nil {
		c.Ratings = make(map[string]int)
	}
	return &c
}

var _ Store = (*MemoryStore)(nil)
