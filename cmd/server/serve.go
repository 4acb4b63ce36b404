package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blgs-backend/internal/catalog"
	"blgs-backend/internal/config"
	"blgs-backend/internal/database"
	"blgs-backend/internal/handlers"
	"blgs-backend/internal/logging"
	"blgs-backend/internal/middleware"
	"blgs-backend/internal/repository"
	"blgs-backend/internal/router"
	"blgs-backend/internal/services"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if _, err := logging.Init(cfg); err != nil {
		slog.Warn("log_file_unavailable", "path", cfg.LogFile, "error", err)
	}
	slog.Info("config_loaded", "env", cfg.Env, "port", cfg.Port, "gemini_backend", cfg.GeminiBackend)

	// ──── Step 2: Load Business Facts ────
	facts, err := catalog.Load(cfg.BusinessFactsFile)
	if err != nil {
		return fmt.Errorf("business facts: %w", err)
	}
	slog.Info("business_facts_loaded", "plans", len(facts.Plans), "services", len(facts.Services), "faq", len(facts.FAQ))

	// ──── Step 3: Initialize Gemini Client ────
	provider, err := services.NewProvider(ctx, cfg)
	switch {
	case errors.Is(err, services.ErrMissingCredential):
		slog.Warn("gemini_api_key_missing", "detail", "chat requests will fail until GEMINI_API_KEY or API_KEY is set")
	case err != nil:
		return fmt.Errorf("gemini client initialization failed: %w", err)
	default:
		slog.Info("gemini_client_ready", "model", cfg.GeminiModel)
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// ──── Step 4: Optional Conversation Store ────
	var store services.ConversationStore
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisClient.Close()
		store = repository.NewConversationRepo(redisClient, cfg.ConversationTTL)
		slog.Info("conversation_store_ready", "ttl", cfg.ConversationTTL.String())
	}

	// ──── Initialize Services & Handlers ────
	chatService := services.NewChatService(provider, cfg.GeminiAPIKey, facts, cfg.GeminiConcurrentReqs, store)
	chatHandler := handlers.NewChatHandler(chatService)
	catalogHandler := handlers.NewCatalogHandler(facts)

	var chatLimiter *middleware.RateLimiter
	if cfg.ChatRateLimit > 0 {
		chatLimiter = middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute)
		defer chatLimiter.Stop()
		slog.Info("chat_rate_limit_enabled", "per_minute", cfg.ChatRateLimit)
	}

	// ──── Step 5: Start HTTP Server ────
	r := router.New(chatHandler, catalogHandler, chatLimiter, cfg.FrontendURLs)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_ready", "addr", "http://localhost:"+cfg.Port, "chat", "POST /api/chat")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	slog.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
