package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vignan-assistant-backend/internal/config"
	"vignan-assistant-backend/internal/database"
	"vignan-assistant-backend/internal/handlers"
	"vignan-assistant-backend/internal/middleware"
	"vignan-assistant-backend/internal/router"
	"vignan-assistant-backend/internal/services"
)

type limiterCloser interface {
	middleware.Limiter
	Close() error
}

func main() {
	log.Println("🚀 Starting Vignan AI Assistant...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Probe AI Providers ────
	candidates := services.DefaultCandidates(cfg.GroqAPIKey, cfg.OpenAIAPIKey, cfg.CohereAPIKey, cfg.GeminiAPIKey)
	prober := services.NewProber(services.NewProviderBuilder(&http.Client{}), cfg.ProbeTimeout)
	active := prober.SelectProvider(context.Background(), candidates)
	if active.IsNone() {
		log.Println("✓ No AI provider available, using local answers only")
	} else {
		log.Printf("✓ Using %s", active)
	}
	if closer, ok := active.Provider.(interface{ Close() }); ok {
		defer closer.Close()
	}

	assistant := services.NewAssistant(active, services.NewLocalResponder(nil), cfg.QueryTimeout)

	// ──── Step 3: Chat Rate Limiter ────
	var limiter limiterCloser
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		limiter = redisLimiter{middleware.NewRedisRateLimiter(client, cfg.ChatRequestsPerMin, time.Minute), client.Close}
		log.Println("✓ Redis connected (shared rate limiting)")
	} else {
		limiter = middleware.NewRateLimiter(cfg.ChatRequestsPerMin, time.Minute)
		log.Println("✓ In-memory rate limiting")
	}
	defer limiter.Close()

	portalAuth := middleware.NewPortalAuth(cfg.JWTSecret)
	if portalAuth.Enabled() {
		log.Println("✓ Portal token verification enabled")
	}

	// ──── Step 4: Start HTTP Server ────
	if cfg.TrustProxy {
		log.Println("✓ Trusting forwarded client IP headers")
	}
	r := router.New(handlers.NewChatHandler(assistant, limiter), limiter, portalAuth, cfg.FrontendURL, cfg.TrustProxy)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.QueryTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		if err := shutdown(server, cfg.QueryTimeout+5*time.Second); err != nil {
			log.Printf("✗ Graceful shutdown failed: %v", err)
			return
		}
		log.Println("✓ Server stopped")
	}()

	log.Printf("✓ Vignan AI Assistant ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: POST http://localhost:%s/api/chat", cfg.Port)
	log.Printf("  WS:   ws://localhost:%s/api/chat/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-done
}

// shutdown waits up to timeout for in-flight requests, then closes any that remain.
func shutdown(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Close()
		return fmt.Errorf("shutdown after %s: %w", timeout, err)
	}
	return nil
}

// redisLimiter closes the Redis client along with the limiter.
type redisLimiter struct {
	*middleware.RedisRateLimiter
	close func() error
}

func (l redisLimiter) Close() error { return l.close() }
