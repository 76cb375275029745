// Package session keeps the signed-in user's token and exposes it to the
// API client.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/donaldgifford/clicklar/internal/api/client"
	"github.com/donaldgifford/clicklar/internal/auth"
)

// Login errors.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not logged in")
)

// Authenticator exchanges credentials for a token. *client.Client
// satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Session tracks the current user's token. The zero token means anonymous,
// read-only mode.
type Session struct {
	store Store
	auth  Authenticator
	log   *slog.Logger
	now   func() time.Time

	mu    sync.RWMutex
	token string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithNow sets the clock used for token expiry checks.
func WithNow(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a Session backed by store. Call Restore to load a saved
// token.
func New(store Store, a Authenticator, opts ...Option) *Session {
	s := &Session{
		store: store,
		auth:  a,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAuthenticator replaces the authenticator. It lets a session be built
// before the API client that reads tokens from it.
func (s *Session) SetAuthenticator(a Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = a
}

// Restore loads the saved token. An expired token is deleted.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		token = ""
	} else if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	if token != "" && s.expired(token) {
		s.log.Info("saved session expired, logging out")
		if err := s.store.Delete(ctx, TokenKey); err != nil {
			return fmt.Errorf("removing expired session: %w", err)
		}
		token = ""
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Login authenticates and persists the returned token.
func (s *Session) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	s.mu.RLock()
	a := s.auth
	s.mu.RUnlock()
	if a == nil {
		return errors.New("session has no authenticator")
	}

	token, err := a.Login(ctx, email, password)
	if err != nil {
		if client.IsStatus(err, http.StatusBadRequest) || client.IsStatus(err, http.StatusUnauthorized) {
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("logging in: %w", err)
	}

	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.log.Info("logged in", "email", email)
	return nil
}

// Logout forgets the token.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when no user is signed in or the
// token has expired. It implements client.TokenSource.
func (s *Session) Token(context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" || s.expired(token) {
		return "", nil
	}
	return token, nil
}

// IsAuthenticated reports whether a usable token is held.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	token, _ := s.Token(ctx)
	return token != ""
}

// Claims returns the unverified claims of the current token.
func (s *Session) Claims() (*auth.Claims, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return auth.ParseUnverified(token)
}

// expired reports whether token is a JWT whose expiry has passed. Opaque
// tokens never expire client-side.
func (s *Session) expired(token string) bool {
	claims, err := auth.ParseUnverified(token)
	if err != nil {
		return false
	}
	return claims.Expired(s.now())
}

var _ client.TokenSource = (*Session)(nil)
