package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "providers", cfg.Typesense.Collection)
	assert.Equal(t, 72, cfg.Chat.AuctionDeadlineHours)
	assert.Equal(t, 3, cfg.Chat.MaxListedProviders)
	assert.Equal(t, 7, cfg.Chat.RequestExpiryDays)
	assert.Equal(t, "memory", cfg.Chat.DirectoryBackend)
	assert.Equal(t, "log", cfg.Notification.Transport)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("CHAT_AUCTION_DEADLINE_HOURS", "48")
	t.Setenv("DEFAULT_LOCATION_LAT", "30.2672")
	t.Setenv("ALLOWED_ORIGINS", "https://app.doction.com, https://admin.doction.com")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	t.Setenv("DIRECTORY_BACKEND", "typesense")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, 48, cfg.Chat.AuctionDeadlineHours)
	assert.InDelta(t, 30.2672, cfg.Location.Latitude, 1e-9)
	assert.Equal(t, []string{"https://app.doction.com", "https://admin.doction.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, "typesense", cfg.Chat.DirectoryBackend)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero deadline", "CHAT_AUCTION_DEADLINE_HOURS", "0"},
		{"negative concurrency", "NOTIFICATION_CONCURRENCY", "-1"},
		{"unknown directory", "DIRECTORY_BACKEND", "mongo"},
		{"unknown store", "REQUEST_STORE", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "doction", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=doction sslmode=disable", db.DatabaseDSN())
}
