package client

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/clicklar/pkg/types"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	creds := domain.Credentials{Email: email, Password: password}
	if err := c.post(ctx, "/login", creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: login response has no token", ErrMalformedResponse)
	}
	return resp.Token, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, r *domain.Registration) error {
	return c.post(ctx, "/register", r, nil)
}

// GetProfile returns the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, "/users/private/profile", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile saves the authenticated user's name, email and phone.
func (c *Client) UpdateProfile(
	ctx context.Context,
	u *domain.ProfileUpdate,
) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.put(ctx, "/users/private/profile", u, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteAccount permanently removes the authenticated user's account.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.del(ctx, "/users/private/profile", nil)
}

// ChangePassword replaces the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}
	return c.put(ctx, "/users/private/change-password", body, nil)
}
