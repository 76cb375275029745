package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestIDKey is the echo context key holding the request ID.
const RequestIDKey = "request_id"

// probePaths are logged on their first success and on every failure only.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context. Client and server errors log at
// warn level.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seenProbe sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(RequestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final.
				c.Error(err)
			}

			path := c.Request().URL.Path
			status := c.Response().Status

			if _, probe := probePaths[path]; probe && status < 400 {
				if _, loaded := seenProbe.LoadOrStore(path, struct{}{}); loaded {
					return nil
				}
			}

			level := slog.LevelInfo
			if status >= 400 {
				level = slog.LevelWarn
			}
			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return nil
		}
	}
}
