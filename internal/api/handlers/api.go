package handlers

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/clicklar/internal/store"
)

// Config returns the huma configuration of the development API, with the
// OpenAPI document and docs UI under /api and the bearer security scheme.
func Config(version string) huma.Config {
	cfg := huma.DefaultConfig("clicklar development API", version)
	cfg.OpenAPIPath = "/api/openapi"
	cfg.DocsPath = "/api/docs"
	cfg.SchemasPath = "/api/schemas"
	if cfg.Components.SecuritySchemes == nil {
		cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	cfg.Components.SecuritySchemes[bearerScheme] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
	return cfg
}

// NewAPI mounts a huma API on e.
func NewAPI(e *echo.Echo, version string) huma.API {
	return humaecho.New(e, Config(version))
}

// Register wires every API handler onto api.
func Register(api huma.API, s store.Store, tokens TokenIssuer, log *slog.Logger) {
	RegisterAuthRoutes(api, NewAuthHandler(s, tokens, log))
	RegisterCategoryRoutes(api, NewCategoryHandler(s))
	RegisterServiceRoutes(api, NewServiceHandler(s), tokens)
	RegisterProfileRoutes(api, NewProfileHandler(s, log), tokens)
}
