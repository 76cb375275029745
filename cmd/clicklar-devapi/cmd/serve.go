package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/clicklar/internal/api/server"
	"github.com/donaldgifford/clicklar/internal/auth"
	"github.com/donaldgifford/clicklar/internal/config"
	"github.com/donaldgifford/clicklar/internal/store"
	"github.com/donaldgifford/clicklar/internal/telemetry"
	"github.com/donaldgifford/clicklar/pkg/logger"
)

//go:embed demo_seed.yaml
var demoSeed []byte

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the development API server",
		Long: "Start the API server. The store is seeded with built-in demo data\n" +
			"unless --seed names a seed file or --empty is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log, viper.GetBool("empty"), nil)
		},
	}

	f := cmd.Flags()
	f.String("host", "", "listen host (default 0.0.0.0)")
	f.Int("port", 0, "listen port (default 8080)")
	f.String("jwt-secret", "", "token signing secret (env CLICKLAR_JWT_SECRET)")
	f.String("seed", "", "seed YAML file (default: built-in demo data)")
	f.Bool("empty", false, "start with an empty store")
	f.String("log-level", "", "log level (debug, info, warn, error)")

	for _, name := range []string{"host", "port", "jwt-secret", "seed", "empty", "log-level"} {
		cobra.CheckErr(viper.BindPFlag(name, f.Lookup(name)))
	}
	return cmd
}

// serve runs the API until ctx is cancelled. A non-nil ln is used instead of
// listening on the configured address.
func serve(ctx context.Context, cfg *config.Config, log *slog.Logger, empty bool, ln net.Listener) error {
	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName + "-devapi",
		Version:     Version,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.WithoutCancel(ctx)); err != nil {
			log.Warn("telemetry shutdown", "error", err)
		}
	}()

	st, err := newStore(ctx, cfg.SeedFile, empty)
	if err != nil {
		return err
	}
	users, services, err := st.Counts(ctx)
	if err != nil {
		return err
	}

	tokens := auth.NewIssuer(cfg.Auth.JWTSecret, auth.WithTTL(cfg.Auth.TokenTTL))
	e := server.New(st, tokens, log, Version)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.ReadHeaderTimeout = cfg.Server.ReadTimeout
	if ln != nil {
		e.Listener = ln
	}

	addr := cfg.Server.Addr()
	if ln != nil {
		addr = ln.Addr().String()
	}
	log.Info("starting server", "addr", addr, "users", users, "services", services)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newStore returns a memory store loaded from seedFile, the demo seed when
// seedFile is empty, or nothing when empty is set.
func newStore(ctx context.Context, seedFile string, empty bool) (*store.MemoryStore, error) {
	st := store.NewMemoryStore()
	if empty {
		return st, nil
	}

	seed, err := loadSeed(seedFile)
	if err != nil {
		return nil, err
	}
	if err := seed.Apply(ctx, st); err != nil {
		return nil, fmt.Errorf("applying seed: %w", err)
	}
	return st, nil
}

func loadSeed(path string) (*store.Seed, error) {
	if path == "" {
		return store.ParseSeed(demoSeed)
	}
	return store.LoadSeed(path)
}
