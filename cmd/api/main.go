// Package main is the entrypoint for the Whispr API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/whispr/whispr/internal/auth"
	"github.com/whispr/whispr/internal/cache"
	"github.com/whispr/whispr/internal/config"
	"github.com/whispr/whispr/internal/handler"
	"github.com/whispr/whispr/internal/metrics"
	"github.com/whispr/whispr/internal/middleware"
	"github.com/whispr/whispr/internal/repository"
	"github.com/whispr/whispr/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize collaborators
	metricsRecorder := metrics.NewNoop()
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	sessions := auth.NewService(repo, cacheClient, issuer)
	limiter := cache.NewLoginLimiter(cacheClient, cfg.LoginMaxAttempts, cfg.LoginDecay)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(sessions, limiter, repo, logger, metricsRecorder)
	messageHandler := handler.NewMessageHandler(repo, logger, metricsRecorder)
	userHandler := handler.NewUserHandler(repo, logger)

	r := setupRouter(h, healthHandler, authHandler, messageHandler, userHandler, sessions, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
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
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	messageHandler *handler.MessageHandler,
	userHandler *handler.UserHandler,
	sessions middleware.SessionValidator,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Sessions: sessions,
	}

	r.Route("/auth", func(r chi.Router) {
		// Guest-only: login and registration reject valid tokens
		r.With(middleware.RequireGuest(authCfg)).Post("/login", authHandler.Login)
		r.With(middleware.RequireGuest(authCfg)).Post("/register", authHandler.Register)

		// Protected: the caller's identity is injected before the
		// handler body runs
		r.With(middleware.RequireAuth(authCfg)).Get("/me", authHandler.Me)
		r.With(middleware.RequireAuth(authCfg)).Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(authCfg)).Post("/refresh", authHandler.Refresh)
	})

	// Received messages of the authenticated caller
	r.With(middleware.RequireAuth(authCfg)).Get("/messages", messageHandler.Index)

	// Anonymous endpoints keyed by recipient username
	r.Get("/{username}", userHandler.Show)
	r.Post("/{username}/send", messageHandler.Store)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
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
