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

	"github.com/zatekoja/doction/backend/internal/adapters/cache"
	"github.com/zatekoja/doction/backend/internal/adapters/database"
	"github.com/zatekoja/doction/backend/internal/adapters/directory"
	"github.com/zatekoja/doction/backend/internal/adapters/events"
	"github.com/zatekoja/doction/backend/internal/adapters/memory"
	"github.com/zatekoja/doction/backend/internal/adapters/providers/location"
	"github.com/zatekoja/doction/backend/internal/adapters/websearch"
	"github.com/zatekoja/doction/backend/internal/api/handlers"
	"github.com/zatekoja/doction/backend/internal/api/middleware"
	"github.com/zatekoja/doction/backend/internal/api/routes"
	"github.com/zatekoja/doction/backend/internal/application/services"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	"github.com/zatekoja/doction/backend/internal/infrastructure/clients/openai"
	"github.com/zatekoja/doction/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/doction/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/doction/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/doction/backend/internal/infrastructure/notifications"
	"github.com/zatekoja/doction/backend/internal/infrastructure/observability"
	"github.com/zatekoja/doction/backend/pkg/config"
	"github.com/zatekoja/doction/backend/pkg/secrets"
)

func main() {
	// Secrets from Vault land in the environment before configuration is read
	vaultResult, vaultErr := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment, cfg.LogLevel)
	if vaultErr != nil {
		log.Warn().Err(vaultErr).Str("path", vaultResult.Path).Msg("failed to load secrets from vault")
	} else if len(vaultResult.Loaded)+len(vaultResult.Skipped) > 0 {
		log.Info().
			Str("path", vaultResult.Path).
			Strs("loaded", vaultResult.Loaded).
			Strs("skipped", vaultResult.Skipped).
			Msg("vault secrets applied")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				if err := shutdown(sctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	checks := map[string]handlers.HealthCheck{}

	// Redis backs the analysis and geocode caches and the request event stream
	var cacheProvider providers.CacheProvider
	var publisher providers.RequestEventPublisher
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache and events")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, metrics)
			publisher = events.NewRedisRequestPublisher(redisClient)
			defer publisher.Close()
			checks["redis"] = redisClient.Ping
		}
	}

	providerDirectory, err := buildDirectory(ctx, cfg, checks)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider directory")
	}

	requestStore, closeStore, err := buildRequestStore(ctx, cfg, checks)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize patient request store")
	}
	defer closeStore()

	transport, err := buildTransport(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize notification transport")
	}

	var llm providers.LLMProvider
	if cfg.OpenAI.APIKey != "" {
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("LLM client unavailable, informational turns use canned answers")
		} else {
			llm = client
		}
	}

	var search providers.WebSearchProvider = websearch.NewCannedSearchProvider()
	if cfg.WebSearch.URL != "" {
		search = websearch.NewHTTPSearchProvider(cfg.WebSearch.URL, cfg.WebSearch.APIKey, nil, search)
	}

	// Services
	analyzer := services.NewMessageAnalysisService(location.NewFromConfig(cfg.Location, cacheProvider))
	if cacheProvider != nil {
		analyzer.SetCache(cacheProvider, cfg.Chat.AnalysisCacheTTL)
	}
	chatService := services.NewChatProcessingService(
		analyzer,
		providerDirectory,
		services.NewProviderRankingService(),
		services.NewReplyRenderer(cfg.Chat.MaxListedProviders),
		services.NewAuctionDraftBuilder(cfg.Chat.AuctionDeadlineHours),
		llm,
		search,
	)
	chatService.SetCitationCount(cfg.WebSearch.Results)
	notifier := services.NewProviderNotificationService(requestStore, transport, publisher, cfg.Notification.Concurrency)
	offerService := services.NewOfferService(chatService)

	// Handlers
	chatHandler := handlers.NewChatHandler(chatService, notifier, offerService)
	providerRequestHandler := handlers.NewProviderRequestHandler(notifier, providerDirectory)
	searchHandler := handlers.NewSearchHandler(search)
	healthHandler := handlers.NewHealthHandler(checks)

	var limiter *middleware.IPRateLimiter
	if cfg.Server.RateLimitRPS > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
		if err := limiter.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			log.Fatal().Err(err).Msg("invalid SERVER_TRUSTED_PROXIES")
		}
	}

	router := routes.NewRouter(
		chatHandler,
		providerRequestHandler,
		searchHandler,
		healthHandler,
		limiter,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	go runExpiry(ctx, notifier, time.Duration(cfg.Chat.RequestExpiryDays)*24*time.Hour)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("environment", cfg.Environment).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func buildDirectory(ctx context.Context, cfg *config.Config, checks map[string]handlers.HealthCheck) (repositories.ProviderDirectory, error) {
	switch strings.ToLower(cfg.Chat.DirectoryBackend) {
	case "typesense":
		client, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			return nil, err
		}
		if err := client.InitSchema(ctx); err != nil {
			return nil, err
		}
		checks["typesense"] = func(ctx context.Context) error {
			_, err := client.Client().Health(ctx, 2*time.Second)
			return err
		}
		log.Info().Str("collection", client.Collection()).Msg("using typesense provider directory")
		return directory.NewTypesenseDirectory(client), nil
	default:
		log.Info().Msg("using in-memory provider directory")
		return directory.NewMemoryDirectory(nil), nil
	}
}

func buildRequestStore(ctx context.Context, cfg *config.Config, checks map[string]handlers.HealthCheck) (repositories.PatientRequestRepository, func(), error) {
	switch strings.ToLower(cfg.Notification.RequestStore) {
	case "postgres":
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		adapter := database.NewPatientRequestAdapter(client).(*database.PatientRequestAdapter)
		if err := adapter.Migrate(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		checks["postgres"] = client.Ping
		return adapter, func() { _ = client.Close() }, nil
	default:
		return memory.NewPatientRequestStore(), func() {}, nil
	}
}

func buildTransport(cfg *config.Config) (providers.NotificationTransport, error) {
	switch strings.ToLower(cfg.Notification.Transport) {
	case "whatsapp":
		transport, err := notifications.NewWhatsAppTransport(cfg.WhatsApp)
		if err != nil {
			return nil, err
		}
		return transport, nil
	default:
		return notifications.NewLogTransport(log.Logger), nil
	}
}

// runExpiry marks stale pending requests expired once an hour until ctx ends
func runExpiry(ctx context.Context, notifier *services.ProviderNotificationService, age time.Duration) {
	if age <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := notifier.ExpireOlderThan(ctx, age)
			if err != nil {
				log.Error().Err(err).Msg("request expiry sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int("expired", n).Msg("expired stale patient requests")
			}
		}
	}
}
