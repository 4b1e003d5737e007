package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/doction/backend/internal/domain/providers"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
)

const defaultHeartbeat = 30 * time.Second

// RequestStreamHandler streams patient request events to providers over Server-Sent Events
type RequestStreamHandler struct {
	events    providers.RequestEventPublisher
	directory repositories.ProviderDirectory
	heartbeat time.Duration
	clients   atomic.Int64
}

// NewRequestStreamHandler creates a stream handler. heartbeat <= 0 uses 30s.
func NewRequestStreamHandler(events providers.RequestEventPublisher, directory repositories.ProviderDirectory, heartbeat time.Duration) *RequestStreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &RequestStreamHandler{events: events, directory: directory, heartbeat: heartbeat}
}

// StreamForProvider handles GET /api/providers/{id}/requests/stream. Events for
// the provider's specialty are forwarded until the client disconnects.
func (h *RequestStreamHandler) StreamForProvider(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.directory.GetByID(r.Context(), providerID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, err := h.events.Subscribe(r.Context(), provider.Specialty)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("specialty", provider.Specialty).Msg("failed to subscribe to request events")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	h.clients.Add(1)
	defer h.clients.Add(-1)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, "connected", map[string]interface{}{
		"provider_id": provider.ID,
		"specialty":   provider.Specialty,
		"timestamp":   time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Ctx(r.Context()).Debug().Str("provider_id", provider.ID).Msg("request stream closed by client")
			return
		case <-ticker.C:
			writeEvent(w, "heartbeat", map[string]interface{}{"timestamp": time.Now().UTC()})
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			writeEvent(w, event.Type, event)
			flusher.Flush()
		}
	}
}

// Stats handles GET /api/stream/stats
func (h *RequestStreamHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]int64{"connected_clients": h.ClientCount()})
}

// ClientCount is the number of open streams
func (h *RequestStreamHandler) ClientCount() int64 {
	return h.clients.Load()
}

func writeEvent(w http.ResponseWriter, name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
