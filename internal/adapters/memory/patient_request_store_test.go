package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newRequest(id, specialty string, created time.Time) *entities.PatientRequest {
	return &entities.PatientRequest{
		ID:          id,
		Specialty:   specialty,
		Urgency:     entities.UrgencyMedium,
		Status:      entities.PatientRequestStatusPending,
		Location:    &entities.Location{City: "Austin", State: "TX"},
		ProviderIDs: []string{"ortho-1"},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestPatientRequestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewPatientRequestStore()

	original := newRequest("req-1", "Orthodontics", base)
	require.NoError(t, store.Create(ctx, original))

	original.Location.City = "Dallas"
	original.ProviderIDs[0] = "changed"

	got, err := store.GetByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "Austin", got.Location.City)
	assert.Equal(t, []string{"ortho-1"}, got.ProviderIDs)

	err = store.Create(ctx, newRequest("req-1", "Orthodontics", base))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	_, err = store.GetByID(ctx, "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestPatientRequestStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := NewPatientRequestStore()
	store.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, store.Create(ctx, newRequest("req-1", "Orthodontics", base)))

	require.NoError(t, store.UpdateStatus(ctx, "req-1", entities.PatientRequestStatusAccepted, "ortho-1"))

	got, err := store.GetByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, entities.PatientRequestStatusAccepted, got.Status)
	assert.Equal(t, "ortho-1", got.RespondedBy)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)

	err = store.UpdateStatus(ctx, "req-1", entities.PatientRequestStatusDeclined, "ortho-2")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	err = store.UpdateStatus(ctx, "missing", entities.PatientRequestStatusDeclined, "ortho-2")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestPatientRequestStore_ListPending(t *testing.T) {
	ctx := context.Background()
	store := NewPatientRequestStore()
	require.NoError(t, store.Create(ctx, newRequest("req-2", "Orthodontics", base.Add(time.Hour))))
	require.NoError(t, store.Create(ctx, newRequest("req-1", "Orthodontics", base)))
	require.NoError(t, store.Create(ctx, newRequest("req-3", "Oral Surgery", base)))
	require.NoError(t, store.UpdateStatus(ctx, "req-2", entities.PatientRequestStatusDeclined, "ortho-1"))
	require.NoError(t, store.Create(ctx, newRequest("req-4", "Orthodontics", base.Add(2*time.Hour))))

	pending, err := store.ListPending(ctx, "ortho")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "req-1", pending[0].ID)
	assert.Equal(t, "req-4", pending[1].ID)

	all, err := store.ListPending(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPatientRequestStore_StatsAndExpire(t *testing.T) {
	ctx := context.Background()
	store := NewPatientRequestStore()
	require.NoError(t, store.Create(ctx, newRequest("old-1", "Orthodontics", base.Add(-10*24*time.Hour))))
	require.NoError(t, store.Create(ctx, newRequest("old-2", "Orthodontics", base.Add(-8*24*time.Hour))))
	require.NoError(t, store.Create(ctx, newRequest("fresh", "Orthodontics", base)))
	require.NoError(t, store.Create(ctx, newRequest("answered", "Orthodontics", base.Add(-9*24*time.Hour))))
	require.NoError(t, store.UpdateStatus(ctx, "answered", entities.PatientRequestStatusAccepted, "ortho-1"))

	ids, err := store.ExpireBefore(ctx, base.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"old-1", "old-2"}, ids)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entities.PatientRequestStats{Total: 4, Pending: 1, Accepted: 1, Expired: 2}, stats)
}

func TestPatientRequestStore_ConcurrentResponses(t *testing.T) {
	ctx := context.Background()
	store := NewPatientRequestStore()
	require.NoError(t, store.Create(ctx, newRequest("req-1", "Orthodontics", base)))

	var wg sync.WaitGroup
	results := make([]error, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.UpdateStatus(ctx, "req-1", entities.PatientRequestStatusAccepted, "ortho-1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}
