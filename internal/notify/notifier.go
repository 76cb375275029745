// Package notify defines the user-facing notification interface and its
// delivery backends.
package notify

import (
	"context"
	"errors"
)

// Level is the severity of a notice.
type Level string

// Notice levels.
const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a single user-visible message.
type Notice struct {
	Title   string
	Message string
	Level   Level
}

// ErrorNotice builds an error-level notice.
func ErrorNotice(title, message string) Notice {
	return Notice{Title: title, Message: message, Level: LevelError}
}

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Multi fans a notice out to every notifier. All notifiers are tried; their
// errors are joined.
type Multi []Notifier

// Notify delivers n to each notifier in order.
func (m Multi) Notify(ctx context.Context, n Notice) error {
	var errs []error
	for _, nt := range m {
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
