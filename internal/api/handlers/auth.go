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

// bearerScheme names the OpenAPI security scheme of private operations.
const bearerScheme = "bearer"

// TokenIssuer signs and verifies session tokens. *auth.Issuer satisfies it.
type TokenIssuer interface {
	Issue(userID, name, email string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// ClaimsFromContext returns the caller's token claims inside a private
// operation, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

func userID(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

// requireBearer is a huma middleware rejecting requests without a valid
// "Authorization: Bearer" token.
func requireBearer(api huma.API, v TokenIssuer) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := strings.CutPrefix(ctx.Header("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := v.Verify(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next(huma.WithValue(ctx, claimsKey{}, claims))
	}
}

// private marks op as requiring a bearer token.
func private(api huma.API, v TokenIssuer, op huma.Operation) huma.Operation {
	op.Security = []map[string][]string{{bearerScheme: {}}}
	op.Middlewares = append(op.Middlewares, requireBearer(api, v))
	op.Errors = append(op.Errors, http.StatusUnauthorized)
	return op
}

// AuthHandler handles account registration and login.
type AuthHandler struct {
	store  store.Store
	tokens TokenIssuer
	log    *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s store.Store, tokens TokenIssuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{store: s, tokens: tokens, log: log}
}

// RegisterInput is the sign-up request body.
type RegisterInput struct {
	Body domain.Registration
}

// Register creates a user account.
func (h *AuthHandler) Register(ctx context.Context, in *RegisterInput) (*StatusOutput, error) {
	reg := in.Body
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.ConfirmPassword = reg.Password
	if err := validate.Registration(&reg); err != nil {
		return nil, validationError(err)
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("hashing password", err)
	}

	u := &store.User{
		Name:         reg.Name,
		Email:        reg.Email,
		Phone:        reg.Phone,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, huma.Error409Conflict("email already registered")
		}
		return nil, huma.Error500InternalServerError("creating user", err)
	}

	h.log.Info("user registered", "user_id", u.ID)
	return status("registered"), nil
}

// LoginInput is the login request body.
type LoginInput struct {
	Body domain.Credentials
}

// LoginOutput carries the session token.
type LoginOutput struct {
	Body struct {
		Token string `json:"token" doc:"HS256 session token"`
	}
}

// Login exchanges credentials for a session token. Unknown emails and
// wrong passwords get the same 401.
func (h *AuthHandler) Login(ctx context.Context, in *LoginInput) (*LoginOutput, error) {
	creds := in.Body
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validate.Credentials(&creds); err != nil {
		return nil, validationError(err)
	}

	u, err := h.store.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error401Unauthorized("invalid email or password")
		}
		return nil, huma.Error500InternalServerError("looking up user", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, creds.Password); err != nil {
		return nil, huma.Error401Unauthorized("invalid email or password")
	}

	token, err := h.tokens.Issue(u.ID, u.Name, u.Email)
	if err != nil {
		return nil, huma.Error500InternalServerError("issuing token", err)
	}

	out := &LoginOutput{}
	out.Body.Token = token
	return out, nil
}

// RegisterAuthRoutes registers the account endpoints.
func RegisterAuthRoutes(api huma.API, h *AuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/register",
		Summary:       "Create an account",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/login",
		Summary:     "Log in",
		Description: "Exchanges an email and password for a session token.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, h.Login)
}
