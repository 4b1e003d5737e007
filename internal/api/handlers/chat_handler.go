package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

const maxMessageLength = 4000

// ChatProcessor runs one chat turn through the pipeline
type ChatProcessor interface {
	Process(ctx context.Context, req entities.ChatRequest) *entities.ProcessedChatResult
}

// RequestDispatcher turns a chat result into a patient request and notifies providers
type RequestDispatcher interface {
	CreateFromChat(message string, result *entities.ProcessedChatResult, patient entities.Patient) *entities.PatientRequest
	Dispatch(ctx context.Context, request *entities.PatientRequest, targets []entities.Provider) (*entities.DispatchResult, error)
}

// OfferGenerator produces provider offers for free text
type OfferGenerator interface {
	FromText(ctx context.Context, text string, history []entities.ChatMessage) *entities.OfferSet
}

// ChatHandler serves the chat, dispatch and offer endpoints
type ChatHandler struct {
	chat       ChatProcessor
	dispatcher RequestDispatcher
	offers     OfferGenerator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatProcessor, dispatcher RequestDispatcher, offers OfferGenerator) *ChatHandler {
	return &ChatHandler{
		chat:       chat,
		dispatcher: dispatcher,
		offers:     offers,
	}
}

type chatRequest struct {
	Message string                 `json:"message"`
	History []entities.ChatMessage `json:"history"`
	Source  string                 `json:"source"`
}

type dispatchRequest struct {
	Message string                 `json:"message"`
	History []entities.ChatMessage `json:"history"`
	Patient entities.Patient       `json:"patient"`
}

type dispatchResponse struct {
	Chat     *entities.ProcessedChatResult `json:"chat"`
	Request  *entities.PatientRequest      `json:"request,omitempty"`
	Dispatch *entities.DispatchResult      `json:"dispatch,omitempty"`
}

type offersRequest struct {
	Text    string                 `json:"text"`
	History []entities.ChatMessage `json:"history"`
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	message, ok := validMessage(w, payload.Message)
	if !ok {
		return
	}

	result := h.chat.Process(r.Context(), entities.ChatRequest{
		Message: message,
		History: payload.History,
		Source:  payload.Source,
	})
	respondWithJSON(w, http.StatusOK, result)
}

// Dispatch handles POST /api/chat/dispatch
func (h *ChatHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var payload dispatchRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	message, ok := validMessage(w, payload.Message)
	if !ok {
		return
	}

	result := h.chat.Process(r.Context(), entities.ChatRequest{Message: message, History: payload.History})
	response := dispatchResponse{Chat: result}
	if !result.ShouldCreateProviderMatches || len(result.Metadata.MatchedProviders) == 0 {
		respondWithJSON(w, http.StatusOK, response)
		return
	}

	targets := make([]entities.Provider, 0, len(result.Metadata.MatchedProviders))
	for _, m := range result.Metadata.MatchedProviders {
		targets = append(targets, m.Provider)
	}

	request := h.dispatcher.CreateFromChat(message, result, payload.Patient)
	dispatch, err := h.dispatcher.Dispatch(r.Context(), request, targets)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	response.Request = request
	response.Dispatch = dispatch
	respondWithJSON(w, http.StatusCreated, response)
}

// OffersFromText handles POST /api/match-offers/from-text
func (h *ChatHandler) OffersFromText(w http.ResponseWriter, r *http.Request) {
	var payload offersRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	text, ok := validMessage(w, payload.Text)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.offers.FromText(r.Context(), text, payload.History))
}

func validMessage(w http.ResponseWriter, raw string) (string, bool) {
	message := strings.TrimSpace(raw)
	if message == "" {
		respondWithError(w, http.StatusBadRequest, "message is required")
		return "", false
	}
	if len(message) > maxMessageLength {
		respondWithError(w, http.StatusBadRequest, "message is too long")
		return "", false
	}
	return message, true
}
