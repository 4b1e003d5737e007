package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/pkg/config"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL + "/",
		RateLimitRPM: -1,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(&config.OpenAIConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.model)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, 20*time.Second, client.httpClient.Timeout)
	require.NotNil(t, client.limiter)
	assert.Equal(t, 5, client.limiter.Burst())
}

func TestClient_Generate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "How long do braces take?", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Usually 18 to 24 months.  "}}]}`))
	})

	reply, err := client.Generate(context.Background(), []entities.ChatMessage{
		{Role: entities.ChatRoleSystem, Content: "You are a dental assistant."},
		{Role: entities.ChatRoleUser, Content: "How long do braces take?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Usually 18 to 24 months.", reply)
}

func TestClient_GenerateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`},
		{name: "api error payload", status: http.StatusOK, body: `{"error":{"message":"overloaded","type":"server_error"}}`},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "blank content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`},
		{name: "malformed json", status: http.StatusOK, body: `{"choices":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), []entities.ChatMessage{{Role: entities.ChatRoleUser, Content: "hi"}})
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal), "got %v", err)
		})
	}
}

func TestClient_GenerateRequiresMessages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Generate(context.Background(), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestClient_GenerateHonoursCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})
	client.limiter = newLimiter(1, 1)
	require.True(t, client.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, []entities.ChatMessage{{Role: entities.ChatRoleUser, Content: "hi"}})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(-1, 5))

	limiter := newLimiter(120, 0)
	require.NotNil(t, limiter)
	assert.Equal(t, 5, limiter.Burst())
	assert.InDelta(t, 2.0, float64(limiter.Limit()), 0.001)
}
