// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/curio-ai/topic-platform/internal/config"
	"github.com/curio-ai/topic-platform/internal/events"
	"github.com/curio-ai/topic-platform/internal/handler"
	"github.com/curio-ai/topic-platform/internal/llm"
	"github.com/curio-ai/topic-platform/internal/middleware"
	"github.com/curio-ai/topic-platform/internal/quota"
	"github.com/curio-ai/topic-platform/internal/service"
	"github.com/curio-ai/topic-platform/internal/store"
	"github.com/curio-ai/topic-platform/pkg/logger"
	"github.com/curio-ai/topic-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "topic-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to Postgres
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Connect the audit event feed when a broker is configured
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.Connect(ctx, events.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, audit events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Initialize the completion client
	llmClient, err := llm.NewClient(llm.Provider(cfg.LLMProvider), llm.Options{
		APIKey:  providerKey(cfg),
		Model:   cfg.LLMModel,
		Timeout: cfg.CompletionTimeout,
	})
	if err != nil {
		log.Error("failed to create completion client", zap.Error(err))
		os.Exit(1)
	}

	// Initialize services
	tracker := quota.New(db, cfg.DailyRequestLimit)
	authSvc := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiration, log)
	topicSvc := service.NewTopicService(tracker, llmClient, db, publisher, log)
	conversationSvc := service.NewConversationService(db, tracker, llmClient, publisher, log)
	favouriteSvc := service.NewFavouriteService(db)
	trendingSvc := service.NewTrendingService(db)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authSvc, log)
	topicHandler := handler.NewTopicHandler(topicSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	favouriteHandler := handler.NewFavouriteHandler(favouriteSvc, log)
	trendingHandler := handler.NewTrendingHandler(trendingSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Auth routes with burst rate limiting
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, db))

		r.Post("/facts/", topicHandler.Facts)
		r.Post("/quotes/", topicHandler.Quotes)

		r.Route("/conversation", func(r chi.Router) {
			r.Post("/start", conversationHandler.Start)
			r.Post("/message", conversationHandler.Send)
			r.Get("/conversations", conversationHandler.List)
			r.Get("/conversations/{id}", conversationHandler.Get)
		})

		r.Route("/favourites", func(r chi.Router) {
			r.Post("/", favouriteHandler.Create)
			r.Get("/", favouriteHandler.List)
			r.Delete("/{id}", favouriteHandler.Delete)
		})

		r.Get("/trending/", trendingHandler.Get)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func providerKey(cfg *config.Config) string {
	if llm.Provider(cfg.LLMProvider) == llm.ProviderAnthropic {
		return cfg.AnthropicAPIKey
	}
	return cfg.OpenAIAPIKey
}
