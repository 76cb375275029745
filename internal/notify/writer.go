package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/donaldgifford/clicklar/internal/metrics"
)

// WriterNotifier prints notices as "Title: Message" lines. The CLI uses it
// with stderr.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier that prints to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify writes a single line for n.
func (n *WriterNotifier) Notify(_ context.Context, notice Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	if notice.Title == "" {
		_, err = fmt.Fprintln(n.w, notice.Message)
	} else {
		_, err = fmt.Fprintf(n.w, "%s: %s\n", notice.Title, notice.Message)
	}
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("writing notice: %w", err)
	}
	metrics.NotificationsTotal.Inc()
	return nil
}
