package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/pkg/config"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

func sampleRequest() *entities.PatientRequest {
	preferred := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	return &entities.PatientRequest{
		ID:                "req-1",
		Specialty:         "Orthodontics",
		Urgency:           entities.UrgencyMedium,
		Location:          &entities.Location{City: "Austin", State: "TX"},
		Budget:            &entities.PriceRange{Min: 4000, Max: 5500},
		PreferredDate:     &preferred,
		InsuranceDetected: true,
		Description:       "Looking for braces",
	}
}

func sampleProvider() entities.Provider {
	return entities.Provider{ID: "ortho-1", Name: "Dr. Sarah Smith", Phone: "+1 (512) 555-0101"}
}

func TestFormatRequestMessage(t *testing.T) {
	text := FormatRequestMessage(sampleProvider(), sampleRequest())

	assert.Contains(t, text, "Hi Dr. Sarah Smith, a patient is looking for Orthodontics in Austin, TX.")
	assert.Contains(t, text, "Urgency: medium")
	assert.Contains(t, text, "Budget: $4,000 - $5,500")
	assert.Contains(t, text, "Preferred date: Mar 9, 2026")
	assert.Contains(t, text, "Patient mentioned insurance.")
	assert.Contains(t, text, "Details: Looking for braces")
	assert.Contains(t, text, "Request ID: req-1")
}

func TestFormatRequestMessage_Minimal(t *testing.T) {
	text := FormatRequestMessage(entities.Provider{}, &entities.PatientRequest{ID: "req-2", Specialty: "Oral Surgery", Urgency: entities.UrgencyHigh})

	assert.Equal(t, "Hi there, a patient is looking for Oral Surgery.\nUrgency: high\nRequest ID: req-2", text)
}

func TestNewWhatsAppTransport(t *testing.T) {
	_, err := NewWhatsAppTransport(config.WhatsAppConfig{AccessToken: "token"})
	assert.Error(t, err)

	_, err = NewWhatsAppTransport(config.WhatsAppConfig{PhoneNumberID: "123"})
	assert.Error(t, err)

	transport, err := NewWhatsAppTransport(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "123"})
	require.NoError(t, err)
	assert.Equal(t, "https://graph.facebook.com/v18.0", transport.baseURL)
}

func newTestTransport(t *testing.T, handler http.HandlerFunc) *WhatsAppTransport {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport, err := NewWhatsAppTransport(config.WhatsAppConfig{AccessToken: "test_token", PhoneNumberID: "123456789"})
	require.NoError(t, err)
	transport.baseURL = server.URL
	transport.httpClient = server.Client()
	return transport
}

func TestWhatsAppTransport_Notify(t *testing.T) {
	transport := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123456789/messages", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		var msg WhatsAppTextMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "15125550101", msg.To)
		assert.Equal(t, "text", msg.Type)
		assert.Contains(t, msg.Text.Body, "Request ID: req-1")

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"messaging_product": "whatsapp",
			"messages":          []map[string]string{{"id": "wamid.1"}},
		})
	})

	require.NoError(t, transport.Notify(context.Background(), sampleProvider(), sampleRequest()))
}

func TestWhatsAppTransport_NotifyFailures(t *testing.T) {
	transport := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient"}}`))
	})

	err := transport.Notify(context.Background(), sampleProvider(), sampleRequest())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))

	noPhone := sampleProvider()
	noPhone.Phone = ""
	err = transport.Notify(context.Background(), noPhone, sampleRequest())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestWhatsAppTransport_SendTemplate(t *testing.T) {
	transport := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		var msg WhatsAppTemplateMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "patient_request", msg.Template.Name)
		assert.Equal(t, "en_US", msg.Template.Language.Code)
		require.Len(t, msg.Template.Components, 1)
		assert.Len(t, msg.Template.Components[0].Parameters, 2)

		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.2"}]}`))
	})

	id, err := transport.SendTemplate(context.Background(), "15125550101", "patient_request", "en_US", []string{"Orthodontics", "Austin"})
	require.NoError(t, err)
	assert.Equal(t, "wamid.2", id)
}

func TestWhatsAppTransport_MissingMessageID(t *testing.T) {
	transport := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[]}`))
	})

	_, err := transport.SendText(context.Background(), "1", "hello")
	assert.Error(t, err)
}

func TestLogTransport_Notify(t *testing.T) {
	var buf bytes.Buffer
	transport := NewLogTransport(zerolog.New(&buf))

	require.NoError(t, transport.Notify(context.Background(), sampleProvider(), sampleRequest()))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "provider notified", entry["message"])
	assert.Equal(t, "ortho-1", entry["provider_id"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "notifications", entry["component"])
	assert.Contains(t, entry["body"], "Request ID: req-1")
}
