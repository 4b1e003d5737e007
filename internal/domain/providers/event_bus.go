package providers

import (
	"context"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// RequestEventPublisher broadcasts patient request lifecycle events
type RequestEventPublisher interface {
	// Publish publishes an event on the channel for its specialty
	Publish(ctx context.Context, event *entities.PatientRequestEvent) error

	// Subscribe streams events for one specialty until ctx is cancelled
	Subscribe(ctx context.Context, specialty string) (<-chan *entities.PatientRequestEvent, error)

	// Close closes the publisher and all subscriptions
	Close() error
}

// EventChannelRequestPrefix is the prefix for per-specialty request channels
const EventChannelRequestPrefix = "provider_requests:"

// GetSpecialtyChannel returns the channel name for a specialty
func GetSpecialtyChannel(specialty string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(specialty)), " ", "_")
	if slug == "" {
		slug = "general"
	}
	return EventChannelRequestPrefix + slug
}
