package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/internlog/server/internal/api"
	"github.com/internlog/server/internal/audit"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/config"
	"github.com/internlog/server/internal/domain/applications"
	"github.com/internlog/server/internal/domain/internships"
	"github.com/internlog/server/internal/domain/logbooks"
	"github.com/internlog/server/internal/domain/users"
	"github.com/internlog/server/internal/metrics"
	"github.com/internlog/server/internal/storage/postgres"
	"github.com/internlog/server/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout       = 10 * time.Second
	dbCollectorInterval   = 15 * time.Second
	adminBootstrapTimeout = 10 * time.Second
)

type serveOptions struct {
	host string
	port int
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the internlog HTTP server",
		Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (or --config file if provided)
- Apply pending database migrations when DATABASE_AUTO_MIGRATE is true
- Bootstrap an admin account if ADMIN_EMAIL and ADMIN_PASSWORD are set
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  internlog serve

  # Start on a specific host and port
  internlog serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  internlog serve --log-level debug

  # Start with a config file
  internlog serve --config /etc/internlog/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			opts.apply(&cfg)

			logger := config.NewLogger(cfg.Logging)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "server host address (default: 0.0.0.0)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "server port (default: 5000)")
	return cmd
}

func (o *serveOptions) apply(cfg *config.Config) {
	if o.host != "" {
		cfg.Server.Host = o.host
	}
	if o.port != 0 {
		cfg.Server.Port = o.port
	}
}

func runServer(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	logger.Info().Str("version", Version).Str("environment", cfg.Environment).Msg("starting internlog server")
	metrics.Init(Version, GitCommit, BuildDate)

	if cfg.Auth.UsingDefaultSecret() {
		logger.Warn().Msg("JWT_SECRET is not set; tokens are signed with the insecure development secret")
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := postgres.MigrateUp(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("database migrations applied")
	}

	pool, err := postgres.Open(ctx, cfg.Database.URL, postgres.PoolOptions{
		MaxConnections: cfg.Database.MaxConnections,
		MinConnections: cfg.Database.MinConnections,
	})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return err
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer)
	auditLogger := audit.NewLogger(logger)

	usersService := users.NewService(repo.Users(), hasher, tokens, auditLogger, logger)
	if err := bootstrapAdmin(ctx, cfg, usersService, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}

	handler := api.NewRouter(cfg, logger, api.Dependencies{
		Users:        usersService,
		Internships:  internships.NewService(repo.Internships(), auditLogger),
		Applications: applications.NewService(repo.Applications(), auditLogger),
		Logbooks:     logbooks.NewService(repo.Logbooks(), auditLogger),
		Tokens:       tokens,
		Health:       repo,
	}, buildInfo())

	server := newHTTPServer(cfg, handler)
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	collector := metrics.NewDBCollector(pool)
	return serveUntilDone(ctx, server, ln, logger, func(ctx context.Context) error {
		return collector.Run(ctx, dbCollectorInterval)
	})
}

func newHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// serveUntilDone serves on ln alongside the background workers until ctx is cancelled or
// one of them fails, then shuts the server down gracefully.
func serveUntilDone(ctx context.Context, server *http.Server, ln net.Listener, logger zerolog.Logger, workers ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	for _, worker := range workers {
		g.Go(func() error { return worker(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

func bootstrapAdmin(ctx context.Context, cfg config.Config, service *users.Service, logger zerolog.Logger) error {
	bootstrap := cfg.AdminBootstrap
	if !bootstrap.Enabled() {
		logger.Debug().Msg("admin bootstrap env vars not set; skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, adminBootstrapTimeout)
	defer cancel()

	created, err := service.EnsureAdmin(ctx, bootstrap.Name, bootstrap.Email, bootstrap.Password)
	if err != nil {
		return err
	}
	if created && !cfg.IsProduction() {
		logger.Info().Str("email", bootstrap.Email).Msg("admin account ready")
	}
	return nil
}
