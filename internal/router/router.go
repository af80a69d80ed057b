// Package router wires handlers and middleware into the HTTP route tree.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/paydemo/paydemo/internal/handler"
	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/middleware"
)

// Deps holds everything the router needs. DB and Cache may be nil when
// the corresponding backend is not configured; so may Limiter.
type Deps struct {
	Logger        *slog.Logger
	Credentials   handler.Credentials
	Sessions      handler.Sessions
	Payments      handler.Payments
	Authenticator middleware.Authenticator
	Limiter       middleware.LoginLimiter
	Metrics       metrics.Snapshotter
	DB            handler.HealthChecker
	Cache         handler.HealthChecker

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64

	RateLimitLoginEnabled bool
	RateLimitLoginRPS     float64
	RateLimitLoginBurst   int
}

// New configures the chi router with all routes and middleware.
func New(d Deps) *chi.Mux {
	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.DB, d.Cache)
	metricsHandler := handler.NewMetricsHandler(d.Metrics)
	accountHandler := handler.NewAccountHandler(d.Credentials, d.Sessions, d.Logger)
	paymentHandler := handler.NewPaymentHandler(d.Payments, d.Logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.CORSAllowedOrigins

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.IsDevelopment}))
	r.Use(middleware.CORS(corsCfg))
	if d.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(d.MaxRequestBodySize))
	}

	// Probes and info
	r.Get("/", h.Root)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.Logger,
		Limiter: d.Limiter,
		Enabled: d.RateLimitLoginEnabled,
		RPS:     d.RateLimitLoginRPS,
		Burst:   d.RateLimitLoginBurst,
	}

	r.Post("/register", accountHandler.Register)
	r.With(middleware.RateLimitLogin(rateLimitCfg)).Post("/token", accountHandler.Token)

	authCfg := middleware.AuthConfig{
		Logger:        d.Logger,
		Authenticator: d.Authenticator,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Post("/logout", accountHandler.Logout)
		r.Get("/me", accountHandler.Me)

		r.Get("/payments", paymentHandler.List)
		r.Post("/payments", paymentHandler.Create)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
