package providers

import (
	"context"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// LLMProvider generates an assistant reply for a conversation
type LLMProvider interface {
	Generate(ctx context.Context, messages []entities.ChatMessage) (string, error)
}

// WebSearchProvider returns up to k sources for a query
type WebSearchProvider interface {
	Search(ctx context.Context, query string, k int) ([]entities.Citation, error)
}
