package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/clicklar/internal/store"
)

// HealthHandler provides liveness and readiness endpoints. They are plain
// echo routes so probes bypass the API's OpenAPI surface.
type HealthHandler struct {
	store   store.Store
	version string
	log     *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store, version string, log *slog.Logger) *HealthHandler {
	return &HealthHandler{store: s, version: version, log: log}
}

// Healthz returns 200 while the process is running.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// Readyz returns 200 when the store answers a ping, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		h.log.Warn("readiness check failed", "error", err)
		return c.JSON(
			http.StatusServiceUnavailable,
			map[string]string{"status": "unavailable"},
		)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
