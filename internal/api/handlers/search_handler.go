package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
)

const defaultSearchResults = 3

// SearchHandler exposes the medical web-search collaborator
type SearchHandler struct {
	search providers.WebSearchProvider
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search providers.WebSearchProvider) *SearchHandler {
	return &SearchHandler{search: search}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

type searchResponse struct {
	Results   []entities.Citation `json:"results"`
	Query     string              `json:"query"`
	Timestamp time.Time           `json:"timestamp"`
}

// MedicalSearch handles POST /api/medical-search
func (h *SearchHandler) MedicalSearch(w http.ResponseWriter, r *http.Request) {
	var payload searchRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	query := strings.TrimSpace(payload.Query)
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}
	k := payload.MaxResults
	if k <= 0 || k > 10 {
		k = defaultSearchResults
	}

	results, err := h.search.Search(r.Context(), query, k)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("medical search failed")
		respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"results": []entities.Citation{},
			"error":   "search temporarily unavailable",
		})
		return
	}
	if results == nil {
		results = []entities.Citation{}
	}

	respondWithJSON(w, http.StatusOK, searchResponse{
		Results:   results,
		Query:     query,
		Timestamp: time.Now().UTC(),
	})
}
