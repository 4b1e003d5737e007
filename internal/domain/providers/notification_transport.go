package providers

import (
	"context"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// NotificationTransport delivers one patient request to one provider
type NotificationTransport interface {
	Notify(ctx context.Context, provider entities.Provider, request *entities.PatientRequest) error
}
