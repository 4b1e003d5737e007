package notifications

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
)

// LogTransport writes each notification to the log instead of delivering it
type LogTransport struct {
	logger zerolog.Logger
}

// NewLogTransport creates a transport that logs through logger
func NewLogTransport(logger zerolog.Logger) *LogTransport {
	return &LogTransport{logger: logger.With().Str("component", "notifications").Logger()}
}

var _ providers.NotificationTransport = (*LogTransport)(nil)

func (t *LogTransport) Notify(_ context.Context, provider entities.Provider, request *entities.PatientRequest) error {
	t.logger.Info().
		Str("provider_id", provider.ID).
		Str("provider_email", provider.Email).
		Str("request_id", request.ID).
		Str("specialty", request.Specialty).
		Str("urgency", string(request.Urgency)).
		Str("body", FormatRequestMessage(provider, request)).
		Msg("provider notified")
	return nil
}
