package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/zatekoja/doction/backend/internal/application/extraction"
	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	"github.com/zatekoja/doction/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

const defaultNotifyConcurrency = 4

var (
	notifyCountersOnce sync.Once
	notifySentCounter  metric.Int64Counter
	notifyFailCounter  metric.Int64Counter
)

// ProviderNotificationService owns the patient request lifecycle: creation from a
// chat turn, fan-out to providers, provider responses and expiry.
type ProviderNotificationService struct {
	store       repositories.PatientRequestRepository
	transport   providers.NotificationTransport
	events      providers.RequestEventPublisher
	concurrency int
	now         func() time.Time
}

// NewProviderNotificationService creates the service. events may be nil.
func NewProviderNotificationService(
	store repositories.PatientRequestRepository,
	transport providers.NotificationTransport,
	events providers.RequestEventPublisher,
	concurrency int,
) *ProviderNotificationService {
	if concurrency <= 0 {
		concurrency = defaultNotifyConcurrency
	}
	return &ProviderNotificationService{
		store:       store,
		transport:   transport,
		events:      events,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// CreateFromChat builds a pending request from a processed chat turn. Nothing is stored.
func (s *ProviderNotificationService) CreateFromChat(message string, result *entities.ProcessedChatResult, patient entities.Patient) *entities.PatientRequest {
	now := s.now().UTC()
	req := &entities.PatientRequest{
		ID:                uuid.NewString(),
		Patient:           patient,
		Specialty:         string(entities.SpecialtyGeneralDentistry),
		Urgency:           entities.UrgencyMedium,
		Description:       message,
		Status:            entities.PatientRequestStatusPending,
		InsuranceDetected: extraction.DetectInsurance(message),
		AdditionalNotes:   extraction.SummarizeRequest(message),
		PreferredDate:     extraction.ExtractPreferredDate(message, now),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if result == nil {
		return req
	}

	meta := result.Metadata
	if meta.Specialty != nil {
		req.Specialty = string(*meta.Specialty)
	}
	if meta.Urgency != "" {
		req.Urgency = meta.Urgency
	}
	req.Location = meta.Location
	if meta.PriceRange != nil {
		budget := *meta.PriceRange
		req.Budget = &budget
	}
	return req
}

// Dispatch stores the request and notifies every provider concurrently. One
// provider failing never stops delivery to the others.
func (s *ProviderNotificationService) Dispatch(ctx context.Context, request *entities.PatientRequest, targets []entities.Provider) (*entities.DispatchResult, error) {
	ctx, span := otel.Tracer(chatInstrumentation).Start(ctx, "notifications.dispatch")
	defer span.End()

	if request == nil {
		return nil, apperrors.NewValidationError("request is required")
	}
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = entities.PatientRequestStatusPending
	}

	request.ProviderIDs = make([]string, 0, len(targets))
	for _, p := range targets {
		request.ProviderIDs = append(request.ProviderIDs, p.ID)
	}

	if err := s.store.Create(ctx, request); err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("failed to store patient request: %w", err)
	}

	failures := make([]error, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range targets {
		g.Go(func() error {
			if err := s.transport.Notify(gctx, p, request); err != nil {
				failures[i] = apperrors.NewDeliveryError(p.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	logger := log.Ctx(ctx)
	result := &entities.DispatchResult{
		RequestID:         request.ID,
		NotifiedProviders: []string{},
		Errors:            []entities.DeliveryFailure{},
	}
	for i, p := range targets {
		if failures[i] != nil {
			logger.Warn().Err(failures[i]).Str("provider_id", p.ID).Str("request_id", request.ID).Msg("provider notification failed")
			result.Errors = append(result.Errors, entities.DeliveryFailure{ProviderID: p.ID, Error: failures[i].Error()})
			continue
		}
		result.NotifiedProviders = append(result.NotifiedProviders, p.ID)
	}
	result.Success = len(result.Errors) == 0
	recordNotifications(ctx, len(result.NotifiedProviders), len(result.Errors))

	span.SetAttributes(
		attribute.String("request.id", request.ID),
		attribute.Int("notifications.sent", len(result.NotifiedProviders)),
		attribute.Int("notifications.failed", len(result.Errors)),
	)
	logger.Info().
		Str("request_id", request.ID).
		Int("notified", len(result.NotifiedProviders)).
		Int("failed", len(result.Errors)).
		Msg("patient request dispatched")

	s.publish(ctx, &entities.PatientRequestEvent{
		Type:      entities.PatientRequestEventCreated,
		RequestID: request.ID,
		Specialty: request.Specialty,
		Status:    request.Status,
		Timestamp: s.now().UTC(),
	})
	return result, nil
}

// Respond records a provider accepting or declining a pending request
func (s *ProviderNotificationService) Respond(ctx context.Context, requestID, providerID string, accepted bool) (*entities.PatientRequest, error) {
	if requestID == "" || providerID == "" {
		return nil, apperrors.NewValidationError("request id and provider id are required")
	}

	request, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if len(request.ProviderIDs) > 0 && !slices.Contains(request.ProviderIDs, providerID) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("provider %s was not asked to respond to request %s", providerID, requestID))
	}

	status := entities.PatientRequestStatusDeclined
	if accepted {
		status = entities.PatientRequestStatusAccepted
	}
	if err := s.store.UpdateStatus(ctx, requestID, status, providerID); err != nil {
		return nil, err
	}

	request.Status = status
	request.RespondedBy = providerID
	request.UpdatedAt = s.now().UTC()

	s.publish(ctx, &entities.PatientRequestEvent{
		Type:       entities.PatientRequestEventResponded,
		RequestID:  requestID,
		Specialty:  request.Specialty,
		ProviderID: providerID,
		Status:     status,
		Timestamp:  request.UpdatedAt,
	})
	return request, nil
}

// PendingForSpecialty lists the pending requests a provider of that specialty can answer
func (s *ProviderNotificationService) PendingForSpecialty(ctx context.Context, specialty string) ([]*entities.PatientRequest, error) {
	return s.store.ListPending(ctx, specialty)
}

func (s *ProviderNotificationService) Stats(ctx context.Context) (*entities.PatientRequestStats, error) {
	return s.store.Stats(ctx)
}

// ExpireOlderThan expires pending requests created more than age ago
func (s *ProviderNotificationService) ExpireOlderThan(ctx context.Context, age time.Duration) (int, error) {
	if age <= 0 {
		return 0, apperrors.NewValidationError("expiry age must be positive")
	}
	ids, err := s.store.ExpireBefore(ctx, s.now().Add(-age))
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.publish(ctx, &entities.PatientRequestEvent{
			Type:      entities.PatientRequestEventExpired,
			RequestID: id,
			Status:    entities.PatientRequestStatusExpired,
			Timestamp: s.now().UTC(),
		})
	}
	if len(ids) > 0 {
		log.Ctx(ctx).Info().Int("expired", len(ids)).Msg("expired stale patient requests")
	}
	return len(ids), nil
}

func (s *ProviderNotificationService) publish(ctx context.Context, event *entities.PatientRequestEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", event.Type).Str("request_id", event.RequestID).Msg("failed to publish request event")
	}
}

func recordNotifications(ctx context.Context, sent, failed int) {
	notifyCountersOnce.Do(func() {
		meter := otel.Meter(chatInstrumentation)
		if c, err := meter.Int64Counter("notifications.sent", metric.WithDescription("Provider notifications delivered")); err == nil {
			notifySentCounter = c
		}
		if c, err := meter.Int64Counter("notifications.failed", metric.WithDescription("Provider notifications that failed")); err == nil {
			notifyFailCounter = c
		}
	})
	if notifySentCounter != nil && sent > 0 {
		notifySentCounter.Add(ctx, int64(sent))
	}
	if notifyFailCounter != nil && failed > 0 {
		notifyFailCounter.Add(ctx, int64(failed))
	}
}
