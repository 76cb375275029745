// Package server assembles the clicklar development API: echo with the
// request log, recovery and metrics middleware, the probe and metrics
// endpoints, and the huma API under /api.
package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/clicklar/internal/api/handlers"
	mw "github.com/donaldgifford/clicklar/internal/api/middleware"
	"github.com/donaldgifford/clicklar/internal/store"
)

// New returns an echo instance serving the full development API backed by
// s. Tokens are issued and verified by tokens.
func New(s store.Store, tokens handlers.TokenIssuer, log *slog.Logger, version string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.RequestLog(log))
	e.Use(mw.Recovery(log))
	e.Use(mw.Metrics())

	health := handlers.NewHealthHandler(s, version, log)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := handlers.NewAPI(e, version)
	handlers.Register(api, s, tokens, log)

	return e
}
