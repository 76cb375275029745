package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/clicklar/internal/store"
)

// ErrorResponse is the error body of every failed request. Clients show
// Message to the user as-is.
type ErrorResponse struct {
	Status  int    `json:"-"`
	Message string `json:"error" example:"service not found"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorResponse) GetStatus() int {
	return e.Status
}

func init() {
	huma.NewError = newError
}

// newError replaces huma's problem+json errors with {"error": "..."}.
// The first detail, if any, is appended to msg.
func newError(status int, msg string, errs ...error) huma.StatusError {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if msg == "" {
			msg = err.Error()
		} else {
			msg += ": " + err.Error()
		}
		break
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ErrorResponse{Status: status, Message: msg}
}

// storeError maps store sentinel errors to HTTP errors. notFound is the
// message used for store.ErrNotFound.
func storeError(err error, action, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound(notFound)
	case errors.Is(err, store.ErrConflict):
		return huma.Error409Conflict(action + ": already exists")
	default:
		return huma.Error500InternalServerError(action, err)
	}
}

// validationError turns a form validation failure into a 400.
func validationError(err error) error {
	return huma.Error400BadRequest(err.Error())
}
