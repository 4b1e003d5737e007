package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

type fakePublisher struct {
	events    chan *entities.PatientRequestEvent
	err       error
	specialty string
}

func (f *fakePublisher) Publish(context.Context, *entities.PatientRequestEvent) error { return nil }

func (f *fakePublisher) Subscribe(_ context.Context, specialty string) (<-chan *entities.PatientRequestEvent, error) {
	f.specialty = specialty
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakePublisher) Close() error { return nil }

func streamRequest(providerID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/providers/"+providerID+"/requests/stream", nil)
	req.SetPathValue("id", providerID)
	return req
}

func TestRequestStreamHandler_ForwardsEvents(t *testing.T) {
	directory := new(MockDirectory)
	directory.On("GetByID", mock.Anything, "oral-1").
		Return(&entities.Provider{ID: "oral-1", Specialty: "Oral Surgery"}, nil)

	pub := &fakePublisher{events: make(chan *entities.PatientRequestEvent, 2)}
	pub.events <- &entities.PatientRequestEvent{
		Type:      entities.PatientRequestEventCreated,
		RequestID: "req-1",
		Specialty: "Oral Surgery",
		Status:    entities.PatientRequestStatusPending,
	}
	close(pub.events)

	h := NewRequestStreamHandler(pub, directory, time.Hour)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.StreamForProvider(rec, streamRequest("oral-1"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end when the subscription closed")
	}

	assert.Equal(t, "Oral Surgery", pub.specialty)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, `"provider_id":"oral-1"`)
	assert.Contains(t, body, "event: patient_request.created\n")
	assert.Contains(t, body, `"request_id":"req-1"`)
	assert.Zero(t, h.ClientCount())
}

func TestRequestStreamHandler_StopsOnDisconnect(t *testing.T) {
	directory := new(MockDirectory)
	directory.On("GetByID", mock.Anything, "ortho-1").
		Return(&entities.Provider{ID: "ortho-1", Specialty: "Orthodontics"}, nil)

	pub := &fakePublisher{events: make(chan *entities.PatientRequestEvent)}
	h := NewRequestStreamHandler(pub, directory, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	req := streamRequest("ortho-1").WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.StreamForProvider(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end on disconnect")
	}
	assert.Zero(t, h.ClientCount())
}

func TestRequestStreamHandler_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		directory := new(MockDirectory)
		directory.On("GetByID", mock.Anything, "nope").Return(nil, apperrors.NewNotFoundError("provider not found"))

		rec := httptest.NewRecorder()
		NewRequestStreamHandler(&fakePublisher{}, directory, 0).StreamForProvider(rec, streamRequest("nope"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("subscribe fails", func(t *testing.T) {
		directory := new(MockDirectory)
		directory.On("GetByID", mock.Anything, "ortho-1").
			Return(&entities.Provider{ID: "ortho-1", Specialty: "Orthodontics"}, nil)

		rec := httptest.NewRecorder()
		pub := &fakePublisher{err: errors.New("publisher is closed")}
		NewRequestStreamHandler(pub, directory, 0).StreamForProvider(rec, streamRequest("ortho-1"))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRequestStreamHandler_Stats(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRequestStreamHandler(&fakePublisher{}, new(MockDirectory), 0).Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stream/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"connected_clients":0}`, rec.Body.String())
}
