package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/doction/backend/internal/adapters/directory"
	"github.com/zatekoja/doction/backend/internal/adapters/events"
	"github.com/zatekoja/doction/backend/internal/api/handlers"
	"github.com/zatekoja/doction/backend/internal/api/middleware"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	"github.com/zatekoja/doction/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/doction/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/doction/backend/internal/infrastructure/observability"
	"github.com/zatekoja/doction/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-sse", cfg.Environment, cfg.LogLevel)

	ctx := log.Logger.WithContext(context.Background())

	// Redis is required: request events only travel over pub/sub
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize redis client")
	}
	defer redisClient.Close()

	publisher := events.NewRedisRequestPublisher(redisClient)

	var providerDirectory repositories.ProviderDirectory = directory.NewMemoryDirectory(nil)
	if strings.EqualFold(cfg.Chat.DirectoryBackend, "typesense") {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize typesense client")
		}
		providerDirectory = directory.NewTypesenseDirectory(tsClient)
	}

	streamHandler := handlers.NewRequestStreamHandler(publisher, providerDirectory, 0)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{"redis": redisClient.Ping})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /api/providers/{id}/requests/stream", streamHandler.StreamForProvider)
	mux.HandleFunc("GET /api/stream/stats", streamHandler.Stats)

	var handler http.Handler = mux
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(cfg.Server.AllowedOrigins)(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,  // Longer timeout for SSE
		WriteTimeout: 0,                 // No timeout for SSE streaming
		IdleTimeout:  120 * time.Second, // Allow long-lived connections
	}

	go func() {
		log.Info().Str("addr", addr).Msg("SSE server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("SSE server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("SSE server shutting down")

	// Closing the publisher ends every open stream so Shutdown does not wait on them
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("error closing request publisher")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("SSE server stopped")
}
