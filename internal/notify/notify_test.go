package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/clicklar/internal/metrics"
)

func TestWriterNotifier_Notify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		notice Notice
		want   string
	}{
		{
			name:   "title and message",
			notice: ErrorNotice("Error", "Could not load services."),
			want:   "Error: Could not load services.\n",
		},
		{
			name:   "message only",
			notice: Notice{Message: "Service created."},
			want:   "Service created.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			n := NewWriterNotifier(&buf)
			require.NoError(t, n.Notify(context.Background(), tt.notice))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriterNotifier_WriteError(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(metrics.NotificationFailuresTotal)
	err := NewWriterNotifier(failingWriter{}).Notify(context.Background(), Notice{Message: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing notice")
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.NotificationFailuresTotal), before+1)
}

func TestLogNotifier_Notify(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.Notify(context.Background(), ErrorNotice("Error", "boom")))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "message=boom")

	buf.Reset()
	require.NoError(t, n.Notify(context.Background(), Notice{Title: "Done", Message: "saved", Level: LevelInfo}))
	assert.Contains(t, buf.String(), "level=INFO")
}

type recordingNotifier struct {
	got []Notice
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, n Notice) error {
	r.got = append(r.got, n)
	return r.err
}

func TestMulti_Notify(t *testing.T) {
	t.Parallel()

	first := &recordingNotifier{err: errors.New("first down")}
	second := &recordingNotifier{}

	err := Multi{first, second}.Notify(context.Background(), Notice{Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first down")
	assert.Len(t, first.got, 1)
	assert.Len(t, second.got, 1, "later notifiers still run after a failure")
}

func TestDiscordNotifier_Notify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		notice     Notice
		statusCode int
		wantErr    bool
		errMsg     string
		wantColor  int
		wantTitle  string
	}{
		{
			name:       "error notice is red",
			notice:     ErrorNotice("Error", "Could not load services."),
			statusCode: http.StatusNoContent,
			wantColor:  colorRed,
			wantTitle:  "Error",
		},
		{
			name:       "info notice is green with default title",
			notice:     Notice{Message: "Service created.", Level: LevelInfo},
			statusCode: http.StatusNoContent,
			wantColor:  colorGreen,
			wantTitle:  "clicklar",
		},
		{
			name:       "discord returns 429 rate limited",
			notice:     ErrorNotice("Error", "x"),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			notice:     ErrorNotice("Error", "x"),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			d := NewDiscordNotifier(srv.URL, WithHTTPClient(srv.Client()))
			err := d.Notify(context.Background(), tt.notice)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)
			assert.Equal(t, tt.wantColor, received.Embeds[0].Color)
			assert.Equal(t, tt.wantTitle, received.Embeds[0].Title)
			assert.Equal(t, tt.notice.Message, received.Embeds[0].Description)
		})
	}
}

func TestDiscordNotifier_Unreachable(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1/webhook")
	err := d.Notify(context.Background(), Notice{Message: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

// compile-time interface checks.
var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*WriterNotifier)(nil)
	_ Notifier = (*DiscordNotifier)(nil)
	_ Notifier = Multi(nil)
)
