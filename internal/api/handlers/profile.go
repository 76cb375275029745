package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/clicklar/internal/auth"
	"github.com/donaldgifford/clicklar/internal/store"
	domain "github.com/donaldgifford/clicklar/pkg/types"
	"github.com/donaldgifford/clicklar/pkg/validate"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	store store.Store
	log   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(s store.Store, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{store: s, log: log}
}

// ProfileOutput is the caller's profile.
type ProfileOutput struct {
	Body domain.Profile
}

// UpdateProfileInput is the edit profile form.
type UpdateProfileInput struct {
	Body domain.ProfileUpdate
}

// ChangePasswordInput is the change password form.
type ChangePasswordInput struct {
	Body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	u, err := h.store.GetUser(ctx, userID(ctx))
	if err != nil {
		return nil, storeError(err, "getting profile", "user not found")
	}
	return &ProfileOutput{Body: profileOf(u)}, nil
}

// Update saves the caller's name, email and phone.
func (h *ProfileHandler) Update(ctx context.Context, in *UpdateProfileInput) (*ProfileOutput, error) {
	form := in.Body
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if err := validate.ProfileUpdate(nil, &form); err != nil {
		return nil, validationError(err)
	}

	u, err := h.store.GetUser(ctx, userID(ctx))
	if err != nil {
		return nil, storeError(err, "getting profile", "user not found")
	}
	u.Name = form.Name
	u.Email = form.Email
	u.Phone = form.Phone
	if err := h.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, huma.Error409Conflict("email already registered")
		}
		return nil, storeError(err, "updating profile", "user not found")
	}
	return &ProfileOutput{Body: profileOf(u)}, nil
}

// Delete removes the caller's account and every listing they own.
func (h *ProfileHandler) Delete(ctx context.Context, _ *struct{}) (*struct{}, error) {
	uid := userID(ctx)
	if err := h.store.DeleteUser(ctx, uid); err != nil {
		return nil, storeError(err, "deleting account", "user not found")
	}
	h.log.Info("account deleted", "user_id", uid)
	return nil, nil
}

// ChangePassword replaces the caller's password after checking the current
// one.
func (h *ProfileHandler) ChangePassword(ctx context.Context, in *ChangePasswordInput) (*StatusOutput, error) {
	form := domain.PasswordChange{
		Current: in.Body.CurrentPassword,
		New:     in.Body.NewPassword,
		Confirm: in.Body.NewPassword,
	}
	if err := validate.PasswordChange(&form); err != nil {
		return nil, validationError(err)
	}

	u, err := h.store.GetUser(ctx, userID(ctx))
	if err != nil {
		return nil, storeError(err, "getting profile", "user not found")
	}
	if err := auth.CheckPassword(u.PasswordHash, form.Current); err != nil {
		return nil, huma.Error400BadRequest("current password is incorrect")
	}

	hash, err := auth.HashPassword(form.New)
	if err != nil {
		return nil, huma.Error500InternalServerError("hashing password", err)
	}
	u.PasswordHash = hash
	if err := h.store.UpdateUser(ctx, u); err != nil {
		return nil, storeError(err, "updating password", "user not found")
	}
	return status("updated"), nil
}

func profileOf(u *store.User) domain.Profile {
	return domain.Profile{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// RegisterProfileRoutes registers the profile endpoints. Every route
// requires a bearer token.
func RegisterProfileRoutes(api huma.API, h *ProfileHandler, tokens TokenIssuer) {
	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/users/private/profile",
		Summary:     "Get my profile",
		Tags:        []string{"profile"},
		Errors:      []int{http.StatusNotFound},
	}), h.Get)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPut,
		Path:        "/api/users/private/profile",
		Summary:     "Edit my profile",
		Tags:        []string{"profile"},
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusNotFound},
	}), h.Update)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID:   "delete-profile",
		Method:        http.MethodDelete,
		Path:          "/api/users/private/profile",
		Summary:       "Delete my account",
		Tags:          []string{"profile"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}), h.Delete)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID: "change-password",
		Method:      http.MethodPut,
		Path:        "/api/users/private/change-password",
		Summary:     "Change my password",
		Tags:        []string{"profile"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}), h.ChangePassword)
}
