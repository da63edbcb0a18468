// Package main is the entrypoint for the PromptForge API server.
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

	"github.com/promptforge/promptforge/internal/auth"
	"github.com/promptforge/promptforge/internal/cache"
	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/handler"
	"github.com/promptforge/promptforge/internal/llm"
	"github.com/promptforge/promptforge/internal/metrics"
	"github.com/promptforge/promptforge/internal/middleware"
	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/repository"
	"github.com/promptforge/promptforge/internal/server"
	"github.com/promptforge/promptforge/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Run migrations before taking traffic
	if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to run migrations",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Session tokens
	tokens := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)

	// Upstream providers
	basicProvider := llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel)
	proProvider := llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)

	// Services
	metricsRecorder := metrics.NewInMemory()
	authService := service.NewAuthService(repo, cfg.BasicQuotaDefault, cfg.ProQuotaDefault, metricsRecorder)
	ledger := service.NewQuotaLedger(repo, cfg.BasicQuotaDefault, cfg.ProQuotaDefault, metricsRecorder)
	refineService := service.NewRefineService(service.RefineConfig{
		Ledger: ledger,
		Providers: map[model.Tier]llm.Provider{
			model.TierBasic: basicProvider,
			model.TierPro:   proProvider,
		},
		UpstreamTimeout: cfg.UpstreamTimeout,
		MaxPromptChars:  cfg.MaxPromptChars,
		Metrics:         metricsRecorder,
		Logger:          logger,
	})
	promptSetService := service.NewPromptSetService(repo)

	// Handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	authHandler := handler.NewAuthHandler(authService, tokens, logger)
	refineHandler := handler.NewRefineHandler(refineService, logger)
	promptSetHandler := handler.NewPromptSetHandler(promptSetService, logger)

	r := setupRouter(routerDeps{
		health:    healthHandler,
		metrics:   metricsHandler,
		auth:      authHandler,
		refine:    refineHandler,
		promptSet: promptSetHandler,
		repo:      repo,
		cache:     cacheClient,
		tokens:    tokens,
		cfg:       cfg,
		logger:    logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

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

type routerDeps struct {
	health    *handler.HealthHandler
	metrics   *handler.MetricsHandler
	auth      *handler.AuthHandler
	refine    *handler.RefineHandler
	promptSet *handler.PromptSetHandler
	repo      *repository.Repository
	cache     *cache.Cache
	tokens    *auth.TokenIssuer
	cfg       *config.Config
	logger    *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	cfg := deps.cfg

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", handler.Hello)

	sessionCfg := middleware.SessionConfig{
		Logger: deps.logger,
		Tokens: deps.tokens,
		Users:  deps.repo,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      deps.logger,
		Limiter:     deps.cache,
		Enabled:     cfg.RateLimitEnabled,
		AuthRPS:     cfg.RateLimitAuthRPS,
		AuthBurst:   cfg.RateLimitAuthBurst,
		RefineRPS:   cfg.RateLimitRefineRPS,
		RefineBurst: cfg.RateLimitRefineBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints: rate limited per IP, no session
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/register", deps.auth.Register)
			r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/login", deps.auth.Login)
			r.With(middleware.Session(sessionCfg)).Get("/session", deps.auth.Session)
		})

		// Refine endpoints: session plus per-IP rate limit
		r.Route("/refine", func(r chi.Router) {
			r.Use(middleware.Session(sessionCfg))
			r.Use(middleware.RateLimitRefine(rateLimitCfg))
			r.Post("/basic", deps.refine.Basic)
			r.Post("/pro", deps.refine.Pro)
		})

		// Prompt set CRUD behind a session
		r.Route("/prompt-sets", func(r chi.Router) {
			r.Use(middleware.Session(sessionCfg))
			r.Post("/", deps.promptSet.Create)
			r.Get("/", deps.promptSet.List)
			r.Get("/{id}", deps.promptSet.Get)
			r.Patch("/{id}", deps.promptSet.Update)
			r.Delete("/{id}", deps.promptSet.Delete)
			r.Post("/{id}/upvote", deps.promptSet.Upvote)
			r.Post("/{id}/prompts", deps.promptSet.AddPrompt)
			r.Get("/{id}/prompts", deps.promptSet.ListPrompts)
			r.Delete("/{id}/prompts/{promptID}", deps.promptSet.DeletePrompt)
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

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
