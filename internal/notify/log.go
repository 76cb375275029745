package notify

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/clicklar/internal/metrics"
)

// LogNotifier implements Notifier by logging notices. It is used when no
// interactive output or webhook is configured.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier that writes notices to log.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs n at a level matching its severity.
func (n *LogNotifier) Notify(ctx context.Context, notice Notice) error {
	level := slog.LevelInfo
	if notice.Level == LevelError {
		level = slog.LevelWarn
	}
	n.log.Log(ctx, level, "notification",
		"title", notice.Title,
		"message", notice.Message,
	)
	metrics.NotificationsTotal.Inc()
	return nil
}
