package client

import (
	"errors"
	"fmt"
)

// Transport and decoding errors. Server errors are reported as *APIError.
var (
	ErrUnavailable       = errors.New("API server unreachable")
	ErrMalformedResponse = errors.New("malformed API response")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	// Message is the server's structured "error" field, if any.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// UserMessage returns the message to show a user for err: the server's
// structured message when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
