package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/danielgtaylor/huma/v2/humatest"

	"github.com/donaldgifford/clicklar/internal/api/handlers"
	"github.com/donaldgifford/clicklar/internal/auth"
	"github.com/donaldgifford/clicklar/pkg/logger"
)

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name: "creates account",
			body: map[string]any{
				"name": "Carla Dias", "email": "carla@example.com",
				"phone": "(31) 99876-5432", "password": "abcdef",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email ignoring case",
			body: map[string]any{
				"name": "Ana Outra", "email": "ANA@example.com",
				"phone": "11999998888", "password": "abcdef",
			},
			wantStatus: http.StatusConflict,
			wantError:  "email already registered",
		},
		{
			name: "invalid phone",
			body: map[string]any{
				"name": "Carla Dias", "email": "carla2@example.com",
				"phone": "123", "password": "abcdef",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid phone number (10 or 11 digits)",
		},
		{
			name: "short password",
			body: map[string]any{
				"name": "Carla Dias", "email": "carla3@example.com",
				"phone": "31998765432", "password": "abc",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "password must be at least 6 characters",
		},
		{
			name: "blank name",
			body: map[string]any{
				"name": "   ", "email": "carla4@example.com",
				"phone": "31998765432", "password": "abcdef",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "please fill in all required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			resp := h.api.Post("/api/register", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorMessage(t, resp))
			}
		})
	}
}

func TestAuthHandler_Register_MissingFieldRejectedBySchema(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	resp := h.api.Post("/api/register", map[string]any{"name": "Carla Dias"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.NotEmpty(t, errorMessage(t, resp))
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantError  string
	}{
		{name: "valid credentials", email: "ana@example.com", password: testPassword, wantStatus: http.StatusOK},
		{name: "email is trimmed", email: "  ana@example.com ", password: testPassword, wantStatus: http.StatusOK},
		{
			name: "wrong password", email: "ana@example.com", password: "nope",
			wantStatus: http.StatusUnauthorized, wantError: "invalid email or password",
		},
		{
			name: "unknown email", email: "ghost@example.com", password: testPassword,
			wantStatus: http.StatusUnauthorized, wantError: "invalid email or password",
		},
		{
			name: "empty password", email: "ana@example.com", password: "",
			wantStatus: http.StatusBadRequest, wantError: "please fill in all required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			resp := h.api.Post("/api/login", map[string]any{"email": tt.email, "password": tt.password})
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorMessage(t, resp))
				return
			}

			body := decode[struct {
				Token string `json:"token"`
			}](t, resp)
			claims, err := h.tokens.Verify(body.Token)
			require.NoError(t, err)
			assert.Equal(t, h.user(t, "ana@example.com").ID, claims.Subject)
			assert.Equal(t, "Ana Souza", claims.Name)
		})
	}
}

func TestAuthHandler_Login_StoreFailure(t *testing.T) {
	t.Parallel()

	ms := &mockStore{}
	ms.On("GetUserByEmail", mock.Anything, "ana@example.com").
		Return(nil, assert.AnError).Once()

	_, api := humatest.New(t, handlers.Config("test"))
	handlers.RegisterAuthRoutes(api, handlers.NewAuthHandler(ms, auth.NewIssuer("s"), logger.Discard()))

	resp := api.Post("/api/login", map[string]any{"email": "ana@example.com", "password": "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, errorMessage(t, resp), "looking up user")
	ms.AssertExpectations(t)
}

func TestPrivateRoutes_RequireBearer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	expired, err := auth.NewIssuer("handler-test-secret",
		auth.WithNow(func() time.Time { return time.Now().Add(-48 * time.Hour) }),
	).Issue(h.user(t, "ana@example.com").ID, "Ana Souza", "ana@example.com")
	require.NoError(t, err)

	foreign, err := auth.NewIssuer("other-secret").
		Issue(h.user(t, "ana@example.com").ID, "Ana Souza", "ana@example.com")
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    []any
		wantError string
	}{
		{name: "no header", wantError: "missing bearer token"},
		{name: "wrong scheme", header: []any{"Authorization: Basic abc"}, wantError: "missing bearer token"},
		{name: "expired token", header: []any{"Authorization: Bearer " + expired}, wantError: "invalid or expired token"},
		{name: "foreign signature", header: []any{"Authorization: Bearer " + foreign}, wantError: "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, path := range []string{"/api/services/private/mine", "/api/users/private/profile"} {
				resp := h.api.Get(path, tt.header...)
				assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
				assert.Equal(t, tt.wantError, errorMessage(t, resp), path)
			}
		})
	}
}
