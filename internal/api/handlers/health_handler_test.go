package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no dependencies",
			checks:     nil,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok","dependencies":{}}`,
		},
		{
			name: "all healthy",
			checks: map[string]HealthCheck{
				"redis":    func(context.Context) error { return nil },
				"postgres": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok","dependencies":{"postgres":"ok","redis":"ok"}}`,
		},
		{
			name: "one failing",
			checks: map[string]HealthCheck{
				"redis":    func(context.Context) error { return errors.New("connection refused") },
				"postgres": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"degraded","dependencies":{"postgres":"ok","redis":"connection refused"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.checks).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
