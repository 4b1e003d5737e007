package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// PatientRequestRepository stores requests broadcast to providers
type PatientRequestRepository interface {
	Create(ctx context.Context, request *entities.PatientRequest) error
	GetByID(ctx context.Context, id string) (*entities.PatientRequest, error)

	// UpdateStatus moves a pending request to status. It returns a conflict
	// error if the request is no longer pending.
	UpdateStatus(ctx context.Context, id string, status entities.PatientRequestStatus, respondedBy string) error

	// ListPending returns pending requests whose specialty contains specialty, oldest first
	ListPending(ctx context.Context, specialty string) ([]*entities.PatientRequest, error)

	Stats(ctx context.Context) (*entities.PatientRequestStats, error)

	// ExpireBefore marks pending requests created before cutoff as expired and returns their ids
	ExpireBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}
