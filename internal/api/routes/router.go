package routes

import (
	"net/http"

	"github.com/zatekoja/doction/backend/internal/api/handlers"
	"github.com/zatekoja/doction/backend/internal/api/middleware"
	"github.com/zatekoja/doction/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	chatHandler            *handlers.ChatHandler
	providerRequestHandler *handlers.ProviderRequestHandler
	searchHandler          *handlers.SearchHandler
	healthHandler          *handlers.HealthHandler

	rateLimiter    *middleware.IPRateLimiter
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. rateLimiter may be nil.
func NewRouter(
	chatHandler *handlers.ChatHandler,
	providerRequestHandler *handlers.ProviderRequestHandler,
	searchHandler *handlers.SearchHandler,
	healthHandler *handlers.HealthHandler,
	rateLimiter *middleware.IPRateLimiter,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		chatHandler:            chatHandler,
		providerRequestHandler: providerRequestHandler,
		searchHandler:          searchHandler,
		healthHandler:          healthHandler,

		rateLimiter:    rateLimiter,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Chat endpoints
	r.mux.Handle("POST /api/chat", r.limited(r.chatHandler.Chat))
	r.mux.Handle("POST /api/chat/dispatch", r.limited(r.chatHandler.Dispatch))
	r.mux.Handle("POST /api/match-offers/from-text", r.limited(r.chatHandler.OffersFromText))

	// Provider request lifecycle
	r.mux.HandleFunc("GET /api/providers/{id}/requests", r.providerRequestHandler.ListForProvider)
	r.mux.HandleFunc("POST /api/provider-requests/{id}/respond", r.providerRequestHandler.Respond)
	r.mux.HandleFunc("GET /api/provider-requests/stats", r.providerRequestHandler.Stats)

	if r.searchHandler != nil {
		r.mux.Handle("POST /api/medical-search", r.limited(r.searchHandler.MedicalSearch))
	}

	// Observability sits closest to the mux so it sees the matched pattern.
	// CORS wraps everything so preflights never reach the limiter.
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

func (r *Router) limited(h http.HandlerFunc) http.Handler {
	if r.rateLimiter == nil {
		return h
	}
	return r.rateLimiter.Middleware(h)
}
