// FAQ Bot - HR/General Affairs FAQ Chat Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/faqbot/internal/api"
	"github.com/ashureev/faqbot/internal/chat"
	"github.com/ashureev/faqbot/internal/config"
	"github.com/ashureev/faqbot/internal/convlog"
	"github.com/ashureev/faqbot/internal/escalation"
	"github.com/ashureev/faqbot/internal/faq"
	"github.com/ashureev/faqbot/internal/identity"
	"github.com/ashureev/faqbot/internal/middleware"
	"github.com/ashureev/faqbot/internal/store"
	"github.com/ashureev/faqbot/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize data API clients.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	source := faq.NewCachedSource(faq.NewClient(httpClient, cfg.DataAPIURL), cfg.DataCacheTTL)
	escalationLog := escalation.NewClient(httpClient, cfg.DataAPIURL, cfg.Escalation.LogType)
	slog.Info("Data API configured", "cache_ttl", cfg.DataCacheTTL, "timeout", cfg.HTTPTimeout)

	engine := chat.NewEngine(source, escalationLog, chat.Config{
		BotName:     cfg.BotName,
		Trigger:     cfg.Escalation.Trigger,
		FormEnabled: cfg.Escalation.FormEnabled,
		LogType:     cfg.Escalation.LogType,
		Replies:     chat.DefaultReplies(cfg.Escalation.Trigger, cfg.Escalation.Contact),
	})

	conversationLogger, err := convlog.New(convlog.Config{
		Enabled:   cfg.ConversationLog.Enabled,
		Dir:       cfg.ConversationLog.Dir,
		QueueSize: cfg.ConversationLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize conversation logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := conversationLogger.Close(); closeErr != nil {
			slog.Error("Failed to close conversation logger", "error", closeErr)
		}
	}()

	// Initialize session state.
	conns := api.NewConnRegistry()
	sessions := store.NewMemoryStore(cfg.SessionTTL, api.OnSessionEnd(conns, conversationLogger))
	slog.Info("Session store ready", "session_ttl", cfg.SessionTTL)

	limiter := api.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
	defer limiter.Stop()

	chatHandler := api.NewChatHandler(engine, sessions, api.ChatOptions{
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		AllowedOrigins:     cfg.AllowedOrigins,
		Limiter:            limiter,
		Conns:              conns,
		Log:                conversationLogger,
	})

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins, identity.SessionHeaderName))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	chatHandler.RegisterRoutes(r)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// WebSocket connections are long-lived, so there is no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully", "open_sockets", conns.Len())
}
