// Package main is the entrypoint for the paydemo API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/cache"
	"github.com/paydemo/paydemo/internal/config"
	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/repository"
	"github.com/paydemo/paydemo/internal/router"
	"github.com/paydemo/paydemo/internal/server"
	"github.com/paydemo/paydemo/internal/service"
	"github.com/paydemo/paydemo/internal/store"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	metricsRecorder := metrics.NewInMemory()

	deps := router.Deps{
		Logger:                logger,
		Metrics:               metricsRecorder,
		IsDevelopment:         cfg.IsDevelopment(),
		CORSAllowedOrigins:    cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize:    cfg.MaxRequestBodySize,
		RateLimitLoginEnabled: cfg.RateLimitLoginEnabled,
		RateLimitLoginRPS:     cfg.RateLimitLoginRPS,
		RateLimitLoginBurst:   cfg.RateLimitLoginBurst,
	}

	// Users and payments: PostgreSQL when configured, memory otherwise.
	var (
		users    store.UserStore    = store.NewMemoryUsers()
		payments store.PaymentStore = store.NewMemoryPayments()
		sessions store.SessionStore
		sweeper  *store.Sweeper
		closers  []func()
	)

	if cfg.UsePostgres() {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}

		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		closers = append(closers, repo.Close)
		users, payments = repo, repo
		deps.DB = repo
		logger.Info("connected to database")
	} else {
		logger.Warn("DATABASE_URL not set, users and payments are kept in memory")
	}

	// Sessions: Redis when configured, memory with a sweeper otherwise.
	if cfg.UseRedis() {
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		closers = append(closers, func() { _ = cacheClient.Close() })
		sessions = cache.NewSessionStore(cacheClient, nil)
		deps.Cache = cacheClient
		deps.Limiter = cacheClient
		logger.Info("connected to Redis")
	} else {
		memSessions := store.NewMemorySessions(nil)
		sessions = memSessions
		sweeper = store.NewSweeper(memSessions, cfg.SessionSweepInterval, logger)
		if cfg.RateLimitLoginEnabled {
			logger.Warn("REDIS_URL not set, login rate limiting is disabled")
		}
	}

	// Initialize services
	credentialService := service.NewCredentialService(users, auth.NewHasher(auth.DefaultParams), nil, metricsRecorder)
	sessionService := service.NewSessionService(sessions, cfg.TokenTTL, nil, metricsRecorder)
	paymentService := service.NewPaymentService(payments, service.InstantApproval{}, nil, metricsRecorder)

	deps.Credentials = credentialService
	deps.Sessions = sessionService
	deps.Payments = paymentService
	deps.Authenticator = service.NewGate(sessionService, credentialService, metricsRecorder)

	srv := server.New(router.New(deps), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Backends close last, so they are registered first.
	srv.OnShutdown("stores", func(ctx context.Context) error {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil
	})
	if sweeper != nil {
		go func() {
			if err := sweeper.Run(ctx); err != nil {
				logger.Error("session sweeper stopped", "error", err)
			}
		}()
		srv.OnShutdown("session-sweeper", sweeper.Shutdown)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"postgres", cfg.UsePostgres(),
		"redis", cfg.UseRedis(),
		"token_ttl", cfg.TokenTTL,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
