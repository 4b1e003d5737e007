package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
)

// ProviderRequestService defines the request lifecycle operations used by the handler.
type ProviderRequestService interface {
	Respond(ctx context.Context, requestID, providerID string, accepted bool) (*entities.PatientRequest, error)
	PendingForSpecialty(ctx context.Context, specialty string) ([]*entities.PatientRequest, error)
	Stats(ctx context.Context) (*entities.PatientRequestStats, error)
}

// ProviderRequestHandler lets providers see and answer patient requests
type ProviderRequestHandler struct {
	service   ProviderRequestService
	directory repositories.ProviderDirectory
}

// NewProviderRequestHandler creates a new provider request handler
func NewProviderRequestHandler(service ProviderRequestService, directory repositories.ProviderDirectory) *ProviderRequestHandler {
	return &ProviderRequestHandler{service: service, directory: directory}
}

type respondRequest struct {
	ProviderID string `json:"providerId"`
	Accepted   *bool  `json:"accepted"`
}

// ListForProvider handles GET /api/providers/{id}/requests
func (h *ProviderRequestHandler) ListForProvider(w http.ResponseWriter, r *http.Request) {
	provider, err := h.directory.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	requests, err := h.service.PendingForSpecialty(r.Context(), provider.Specialty)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"provider_id": provider.ID,
		"specialty":   provider.Specialty,
		"requests":    requests,
		"count":       len(requests),
	})
}

// Respond handles POST /api/provider-requests/{id}/respond
func (h *ProviderRequestHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var payload respondRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if strings.TrimSpace(payload.ProviderID) == "" {
		respondWithError(w, http.StatusBadRequest, "providerId is required")
		return
	}
	if payload.Accepted == nil {
		respondWithError(w, http.StatusBadRequest, "accepted is required")
		return
	}

	request, err := h.service.Respond(r.Context(), r.PathValue("id"), payload.ProviderID, *payload.Accepted)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, request)
}

// Stats handles GET /api/provider-requests/stats
func (h *ProviderRequestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
