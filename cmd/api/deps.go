package main

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/quillnote/quillnote/internal/auth"
	"github.com/quillnote/quillnote/internal/cache"
	"github.com/quillnote/quillnote/internal/config"
	"github.com/quillnote/quillnote/internal/handler"
	"github.com/quillnote/quillnote/internal/metrics"
	"github.com/quillnote/quillnote/internal/middleware"
	"github.com/quillnote/quillnote/internal/repository"
	"github.com/quillnote/quillnote/internal/server"
	"github.com/quillnote/quillnote/internal/service"
	"github.com/quillnote/quillnote/internal/session"
	"github.com/quillnote/quillnote/internal/store"
	"github.com/quillnote/quillnote/internal/store/memory"
)

// component is a started dependency that must be stopped on shutdown.
type component struct {
	name     string
	shutdown server.ShutdownFunc
}

// app is the wired server: the router plus everything it holds open.
type app struct {
	router     http.Handler
	components []component
}

func (a *app) add(name string, fn server.ShutdownFunc) {
	a.components = append(a.components, component{name: name, shutdown: fn})
}

// close stops components in reverse start order.
func (a *app) close(ctx context.Context) {
	for i := len(a.components) - 1; i >= 0; i-- {
		_ = a.components[i].shutdown(ctx)
	}
	a.components = nil
}

// buildApp connects the configured backends and wires services, handlers
// and middleware. On error everything already started is stopped again.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	recorder, err := metrics.NewPrometheus(registry)
	if err != nil {
		return nil, oops.Code("METRICS_INIT_FAILED").With("operation", "register metrics").Wrap(err)
	}

	var (
		repo   *repository.Repository
		checks []handler.HealthCheck
	)

	if cfg.NeedsPostgres() {
		repo, err = repository.New(ctx, cfg.DatabaseURL, repository.Options{
			Retries: cfg.ConnectRetries,
			Logger:  logger,
		})
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
		}
		a.add("postgres", func(context.Context) error {
			repo.Close()
			return nil
		})
		checks = append(checks, handler.HealthCheck{Name: "postgres", Checker: repo})
		logger.Info("connected to database")

		if cfg.AutoMigrate {
			if err := repository.Migrate(cfg.DatabaseURL); err != nil {
				return nil, oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
			}
			logger.Info("migrations applied")
		}
	}

	var (
		credentials store.CredentialStore
		notes       store.NoteStore
		checker     session.IdentityChecker
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		credentials, notes, checker = repo, repo, repo
	default:
		identities := memory.NewIdentityStore()
		credentials, notes, checker = identities, memory.NewNoteStore(), identities
		logger.Warn("using in-memory storage; data is lost on restart")
	}

	sessions, err := buildSessionStore(ctx, cfg, logger, repo, a, &checks)
	if err != nil {
		return nil, err
	}

	policy := session.WithTTL(cfg.SessionTTL)
	manager := session.NewManager(sessions, policy,
		session.WithIdentityChecker(checker),
		session.WithLogger(logger),
	)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	// The session cookie may cross origins only for an explicit allowlist.
	cors.AllowCredentials = len(cors.AllowedOrigins) > 0 && !slices.Contains(cors.AllowedOrigins, "*")

	a.router = handler.NewRouter(handler.RouterConfig{
		Logger:   logger,
		Auth:     service.NewAuthService(credentials, auth.NewArgon2Hasher(), manager, logger, recorder),
		Notes:    service.NewNoteService(notes, logger, recorder),
		Gate:     service.NewGate(manager, logger, recorder),
		Health:   checks,
		Recorder: recorder,
		Gatherer: registry,
		Cookie: handler.CookieConfig{
			Secure: cfg.SessionCookieSecure,
			TTL:    cfg.SessionTTL,
		},
		Security:    middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		CORS:        cors,
		MaxBodySize: cfg.MaxRequestBodySize,
		PrintStack:  cfg.IsDevelopment(),
	})

	logger.Info("session policy", slog.String("policy", manager.Policy().String()))
	return a, nil
}

// buildSessionStore returns the session table for cfg.SessionBackend and
// starts its expiry janitor when sessions can expire.
func buildSessionStore(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	repo *repository.Repository,
	a *app,
	checks *[]handler.HealthCheck,
) (session.Store, error) {
	expires := cfg.SessionTTL > 0

	switch cfg.SessionBackend {
	case config.SessionRedis:
		c, err := cache.New(ctx, cfg.RedisURL, cache.Options{
			Retries: cfg.ConnectRetries,
			Logger:  logger,
		})
		if err != nil {
			return nil, oops.Code("REDIS_CONNECT_FAILED").With("operation", "connect to redis").Wrap(err)
		}
		a.add("redis", func(context.Context) error { return c.Close() })
		*checks = append(*checks, handler.HealthCheck{Name: "redis", Checker: c})
		logger.Info("connected to Redis")
		// Redis expires keys itself.
		return c.Sessions(), nil

	case config.SessionPostgres:
		sessions := repo.Sessions()
		if expires {
			purgeCtx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				defer close(done)
				sessions.RunPurger(purgeCtx, cfg.SessionSweepInterval, logger)
			}()
			a.add("session-purger", func(ctx context.Context) error {
				cancel()
				select {
				case <-done:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		return sessions, nil

	default:
		sessions := memory.NewSessionStore()
		if expires {
			sessions.StartSweeper(cfg.SessionSweepInterval)
			a.add("session-sweeper", func(context.Context) error { return sessions.Close() })
		}
		return sessions, nil
	}
}
