package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

// PatientRequestStore keeps patient requests in process memory.
// Stored values are copied on the way in and out.
type PatientRequestStore struct {
	mu       sync.RWMutex
	requests map[string]*entities.PatientRequest
	now      func() time.Time
}

// NewPatientRequestStore creates an empty store
func NewPatientRequestStore() *PatientRequestStore {
	return &PatientRequestStore{
		requests: make(map[string]*entities.PatientRequest),
		now:      time.Now,
	}
}

var _ repositories.PatientRequestRepository = (*PatientRequestStore)(nil)

func (s *PatientRequestStore) Create(_ context.Context, request *entities.PatientRequest) error {
	if request == nil {
		return apperrors.NewInternalError("patient request is nil", fmt.Errorf("patient request is nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[request.ID]; ok {
		return apperrors.NewConflictError(fmt.Sprintf("patient request %s already exists", request.ID))
	}
	s.requests[request.ID] = clone(request)
	return nil
}

func (s *PatientRequestStore) GetByID(_ context.Context, id string) (*entities.PatientRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient request %s not found", id))
	}
	return clone(request), nil
}

func (s *PatientRequestStore) UpdateStatus(_ context.Context, id string, status entities.PatientRequestStatus, respondedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("patient request %s not found", id))
	}
	if request.Status != entities.PatientRequestStatusPending {
		return apperrors.NewConflictError(fmt.Sprintf("patient request %s is already %s", id, request.Status))
	}

	request.Status = status
	request.RespondedBy = respondedBy
	request.UpdatedAt = s.now().UTC()
	return nil
}

func (s *PatientRequestStore) ListPending(_ context.Context, specialty string) ([]*entities.PatientRequest, error) {
	needle := strings.ToLower(specialty)

	s.mu.RLock()
	pending := make([]*entities.PatientRequest, 0)
	for _, request := range s.requests {
		if request.Status != entities.PatientRequestStatusPending {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(request.Specialty), needle) {
			continue
		}
		pending = append(pending, clone(request))
	}
	s.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *PatientRequestStore) Stats(_ context.Context) (*entities.PatientRequestStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &entities.PatientRequestStats{Total: len(s.requests)}
	for _, request := range s.requests {
		switch request.Status {
		case entities.PatientRequestStatusPending:
			stats.Pending++
		case entities.PatientRequestStatusAccepted:
			stats.Accepted++
		case entities.PatientRequestStatusDeclined:
			stats.Declined++
		case entities.PatientRequestStatusExpired:
			stats.Expired++
		}
	}
	return stats, nil
}

func (s *PatientRequestStore) ExpireBefore(_ context.Context, cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	ids := make([]string, 0)
	for id, request := range s.requests {
		if request.Status == entities.PatientRequestStatusPending && request.CreatedAt.Before(cutoff) {
			request.Status = entities.PatientRequestStatusExpired
			request.UpdatedAt = now
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(request *entities.PatientRequest) *entities.PatientRequest {
	c := *request
	if request.Location != nil {
		loc := *request.Location
		c.Location = &loc
	}
	if request.Budget != nil {
		budget := *request.Budget
		c.Budget = &budget
	}
	if request.PreferredDate != nil {
		t := *request.PreferredDate
		c.PreferredDate = &t
	}
	if request.ProviderIDs != nil {
		c.ProviderIDs = append([]string(nil), request.ProviderIDs...)
	}
	return &c
}
