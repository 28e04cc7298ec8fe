package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quillnote/quillnote/internal/metrics"
	"github.com/quillnote/quillnote/internal/middleware"
	"github.com/quillnote/quillnote/internal/service"
)

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Logger   *slog.Logger
	Auth     *service.AuthService
	Notes    *service.NoteService
	Gate     *service.Gate
	Health   []HealthCheck
	Recorder metrics.Recorder
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Cookie   CookieConfig
	Security middleware.SecurityConfig
	CORS     middleware.CORSConfig
	// MaxBodySize caps request bodies in bytes. Zero disables the cap.
	MaxBodySize int64
	// PrintStack logs a stack trace for recovered panics.
	PrintStack bool
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	h := New(cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Logger, cfg.Health...)
	authHandler := NewAuthHandler(cfg.Auth, cfg.Cookie, cfg.Logger)
	noteHandler := NewNoteHandler(cfg.Notes, cfg.Logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.PrintStack))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}

	r.Get("/", h.Hello)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", MetricsHandler(cfg.Gatherer))
	}

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Route("/notes", func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			Logger: cfg.Logger,
			Gate:   cfg.Gate,
		}))

		r.Get("/", noteHandler.List)
		r.Post("/", noteHandler.Create)
		r.Get("/{id}", noteHandler.Get)
		r.Put("/{id}", noteHandler.Update)
		r.Delete("/{id}", noteHandler.Delete)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
