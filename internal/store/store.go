// Package store defines the datastore abstraction for the clicklar
// development API. Handlers depend on the Store interface, never on
// concrete implementations.
package store

import (
	"context"
	"errors"
	"time"
)

// Store errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// User is a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Service is a listing together with its raw ratings.
type Service struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       float64
	OwnerID     string
	// Ratings maps rater user ID to stars.
	Ratings   map[string]int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AverageRating is the mean of all ratings, 0 when unrated.
func (s *Service) AverageRating() float64 {
	if len(s.Ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range s.Ratings {
		total += r
	}
	return float64(total) / float64(len(s.Ratings))
}

// Store defines all data access operations for the development API.
type Store interface {
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	// DeleteUser removes the user and every service they own.
	DeleteUser(ctx context.Context, id string) error

	// Categories
	AddCategory(ctx context.Context, name string) error
	ListCategories(ctx context.Context) ([]string, error)

	// Services
	CreateService(ctx context.Context, s *Service) error
	GetService(ctx context.Context, id string) (*Service, error)
	ListServices(ctx context.Context, q *ServiceQuery) ([]Service, error)
	ListServicesByOwner(ctx context.Context, ownerID string) ([]Service, error)
	UpdateService(ctx context.Context, s *Service) error
	DeleteService(ctx context.Context, id string) error
	// RateService records userID's rating, replacing any earlier one.
	RateService(ctx context.Context, serviceID, userID string, stars int) error

	// Counts
	Counts(ctx context.Context) (users, services int, err error)
}
