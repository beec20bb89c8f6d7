package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/chirp/chirp/internal/config"
	"github.com/chirp/chirp/internal/handler"
	"github.com/chirp/chirp/internal/middleware"
)

// routes groups the handlers mounted by setupRouter.
type routes struct {
	info    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	users   *handler.UserHandler
	posts   *handler.PostHandler
}

// setupRouter configures the chi router with all routes and middleware.
// A nil limiter disables write rate limiting.
func setupRouter(h routes, limiter middleware.WriteLimiter, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.NotFound(h.info.NotFound)
	r.MethodNotAllowed(h.info.MethodNotAllowed)

	r.Get("/", h.info.Info)
	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	r.Get("/metrics", h.metrics.Metrics)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: limiter,
		Enabled: cfg.RateLimitWriteEnabled,
		RPS:     cfg.RateLimitWriteRPS,
		Burst:   cfg.RateLimitWriteBurst,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitWrites(rateLimitCfg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.users.List)
			r.Post("/", h.users.Create)
			r.Get("/{id}", h.users.Get)
			r.Patch("/{id}", h.users.Update)
			r.Delete("/{id}", h.users.Delete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.posts.List)
			r.Post("/", h.posts.Create)
			r.Get("/{id}", h.posts.Get)
			r.Patch("/{id}", h.posts.Update)
			r.Delete("/{id}", h.posts.Delete)
		})
	})

	return r
}
