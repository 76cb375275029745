package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/clicklar/internal/api/client"
	"github.com/donaldgifford/clicklar/internal/config"
	"github.com/donaldgifford/clicklar/internal/notify"
	"github.com/donaldgifford/clicklar/internal/session"
	"github.com/donaldgifford/clicklar/internal/telemetry"
	"github.com/donaldgifford/clicklar/pkg/logger"
)

var envKeyReplacer = strings.NewReplacer("-", "_")

// app holds the collaborators shared by every command.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	client   *client.Client
	session  *session.Session
	notifier notify.Notifier

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	closers []func(context.Context) error
}

// newApp wires config, logging, telemetry, the session store and the API
// client. The saved session is restored before returning.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		log:    logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format),
		in:     bufio.NewReader(cmd.InOrStdin()),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     Version,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}
	a.closers = append(a.closers, shutdown)

	store, closeStore, err := openSessionStore(ctx, &cfg.Session)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	a.session = session.New(store, nil, session.WithLogger(a.log))
	opts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		client.WithTokenSource(a.session),
	}
	if cfg.API.RateLimit.PerSecond > 0 {
		opts = append(opts, client.WithRateLimit(cfg.API.RateLimit.PerSecond, cfg.API.RateLimit.Burst))
	}
	a.client = client.New(cfg.API.BaseURL, opts...)
	a.session.SetAuthenticator(a.client)

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn("could not restore session", "error", err)
	}

	notifiers := notify.Multi{notify.NewWriterNotifier(a.errOut)}
	if cfg.Notifications.Discord.Enabled {
		notifiers = append(notifiers, notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL))
	}
	a.notifier = notifiers

	return a, nil
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn("shutdown", "error", err)
		}
	}
}

// requireLogin fails with session.ErrNotAuthenticated unless a user is
// signed in.
func (a *app) requireLogin(ctx context.Context) error {
	if !a.session.IsAuthenticated(ctx) {
		return fmt.Errorf("%w: run `clicklar login` first", session.ErrNotAuthenticated)
	}
	return nil
}

// fail reports err through the notifier and returns it for cobra's exit
// status. Server errors show their structured message or fallback;
// anything else shows as-is.
func (a *app) fail(ctx context.Context, title, fallback string, err error) error {
	msg := err.Error()
	var apiErr *client.APIError
	if errors.As(err, &apiErr) || errors.Is(err, client.ErrMalformedResponse) {
		msg = client.UserMessage(err, fallback)
	}
	if nerr := a.notifier.Notify(ctx, notify.ErrorNotice(title, msg)); nerr != nil {
		a.log.Error("delivering notification", "error", nerr)
	}
	return err
}

// run adapts an app-aware command body to cobra's RunE.
func run(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))
		return fn(ctx, a, args)
	}
}

// openSessionStore opens the configured token store and returns its
// closer.
func openSessionStore(
	ctx context.Context,
	cfg *config.SessionConfig,
) (session.Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Backend {
	case config.SessionBackendMemory:
		return session.NewMemoryStore(), noop, nil
	case config.SessionBackendRedis:
		rdb, err := session.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis session store: %w", err)
		}
		store := session.NewRedisStore(rdb,
			session.WithPrefix(cfg.Redis.Prefix),
			session.WithTTL(cfg.Redis.TTL),
		)
		return store, func(context.Context) error { return rdb.Close() }, nil
	default:
		return session.NewFileStore(cfg.Path), noop, nil
	}
}

// prompt asks for a value on stdin when flagValue is empty.
func (a *app) prompt(label, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if _, err := fmt.Fprintf(a.errOut, "%s: ", label); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question unless yes is already set.
func (a *app) confirm(question string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	answer, err := a.prompt(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
