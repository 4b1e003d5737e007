package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{name: "listed origin", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", method: http.MethodGet, wantOrigin: "http://localhost:3000", wantStatus: http.StatusOK},
		{name: "unlisted origin", allowed: []string{"http://localhost:3000"}, origin: "http://evil.example", method: http.MethodGet, wantOrigin: "", wantStatus: http.StatusOK},
		{name: "wildcard", allowed: []string{"*"}, origin: "http://any.example", method: http.MethodGet, wantOrigin: "*", wantStatus: http.StatusOK},
		{name: "empty list allows all", allowed: nil, origin: "http://any.example", method: http.MethodGet, wantOrigin: "*", wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", method: http.MethodOptions, wantOrigin: "http://localhost:3000", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/api/chat", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORSMiddleware(tt.allowed)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.method != http.MethodOptions, called)
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = original }()

	var ctxLogger *zerolog.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = zerolog.Ctx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()

	LoggingMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	require.NotNil(t, ctxLogger)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["message"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "/health", entry["path"])
}

func TestLoggingMiddleware_GeneratesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	LoggingMiddleware(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	RecoveryMiddleware(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestObservabilityMiddleware_NilMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	ObservabilityMiddleware(nil)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestObservabilityMiddleware_LogsCarryTraceContext(t *testing.T) {
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	var buf bytes.Buffer
	base := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()

	handler := ObservabilityMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Info().Msg("handled")
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req = req.WithContext(base.WithContext(req.Context()))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Len(t, entry["trace_id"], 32)
	assert.Len(t, entry["span_id"], 16)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))

	now = now.Add(time.Hour)
	limiter.Allow("10.0.0.3")
	assert.Len(t, limiter.limiters, 1)
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	handler := NewIPRateLimiter(0.001, 1).Middleware(okHandler)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	handler.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	// a fresh forwarded address from an untrusted peer is still the same client
	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.8")
	handler.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestIPRateLimiter_MiddlewareBehindTrustedProxy(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	require.NoError(t, limiter.SetTrustedProxies([]string{"192.0.2.0/24"}))
	handler := limiter.Middleware(okHandler)

	for _, client := range []string{"203.0.113.7", "203.0.113.8"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("X-Forwarded-For", client)
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, client)
	}
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1", " "})
	require.NoError(t, err)
	require.Len(t, trusted, 2)

	tests := []struct {
		name    string
		remote  string
		xff     string
		realIP  string
		trusted []netip.Prefix
		want    string
	}{
		{name: "peer without headers", remote: "192.0.2.1:1234", trusted: trusted, want: "192.0.2.1"},
		{name: "untrusted peer ignores forwarded for", remote: "198.51.100.9:4000", xff: "203.0.113.7", trusted: trusted, want: "198.51.100.9"},
		{name: "untrusted peer ignores real ip", remote: "198.51.100.9:4000", realIP: "203.0.113.7", trusted: trusted, want: "198.51.100.9"},
		{name: "no trusted proxies", remote: "192.0.2.1:1234", xff: "203.0.113.7", want: "192.0.2.1"},
		{name: "trusted peer", remote: "192.0.2.1:1234", xff: "203.0.113.7", trusted: trusted, want: "203.0.113.7"},
		{name: "skips trusted hops", remote: "10.0.0.2:80", xff: "198.51.100.1, 203.0.113.7, 10.0.0.5", trusted: trusted, want: "203.0.113.7"},
		{name: "all hops trusted", remote: "10.0.0.2:80", xff: "10.1.1.1, 10.0.0.5", trusted: trusted, want: "10.1.1.1"},
		{name: "real ip behind trusted peer", remote: "10.0.0.2:80", realIP: "198.51.100.2", trusted: trusted, want: "198.51.100.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trusted))
		})
	}
}

func TestParseTrustedProxies_Invalid(t *testing.T) {
	_, err := ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = ParseTrustedProxies([]string{"proxy.internal"})
	assert.Error(t, err)
}
