package repositories

import (
	"context"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// ProviderDirectory is the read-only provider lookup the chat pipeline matches against
type ProviderDirectory interface {
	// BySpecialty returns providers whose specialty contains name, case-insensitively
	BySpecialty(ctx context.Context, name string) ([]entities.Provider, error)

	// Search returns providers matching free text
	Search(ctx context.Context, text string) ([]entities.Provider, error)

	// GetByID returns one provider or a not found error
	GetByID(ctx context.Context, id string) (*entities.Provider, error)
}
