package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/pkg/config"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

const austinResponse = `{
	"status": "OK",
	"results": [{
		"formatted_address": "1100 Congress Ave, Austin, TX 78701, USA",
		"address_components": [
			{"long_name": "1100", "short_name": "1100", "types": ["street_number"]},
			{"long_name": "Austin", "short_name": "Austin", "types": ["locality", "political"]},
			{"long_name": "Travis County", "short_name": "Travis County", "types": ["administrative_area_level_2", "political"]},
			{"long_name": "Texas", "short_name": "TX", "types": ["administrative_area_level_1", "political"]},
			{"long_name": "United States", "short_name": "US", "types": ["country", "political"]},
			{"long_name": "78701", "short_name": "78701", "types": ["postal_code"]}
		],
		"geometry": {"location": {"lat": 30.2747, "lng": -97.7404}}
	}]
}`

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func TestGoogleReverseGeocoder_ReverseGeocode(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "30.274700,-97.740400", r.URL.Query().Get("latlng"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(austinResponse))
	}))
	defer server.Close()

	cache := newMapCache()
	geocoder := NewGoogleReverseGeocoderWithOptions("test-key", cache, server.URL, server.Client())

	address, err := geocoder.ReverseGeocode(context.Background(), 30.2747, -97.7404)
	require.NoError(t, err)
	assert.Equal(t, "Austin", address.City)
	assert.Equal(t, "TX", address.State)
	assert.Equal(t, "78701", address.ZipCode)
	assert.Equal(t, "US", address.Country)

	again, err := geocoder.ReverseGeocode(context.Background(), 30.2747, -97.7404)
	require.NoError(t, err)
	assert.Equal(t, address, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGoogleReverseGeocoder_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		errorType apperrors.ErrorType
	}{
		{name: "http error", status: http.StatusInternalServerError, body: `{}`, errorType: apperrors.ErrorTypeExternal},
		{name: "api error", status: http.StatusOK, body: `{"status":"REQUEST_DENIED","error_message":"bad key"}`, errorType: apperrors.ErrorTypeExternal},
		{name: "zero results", status: http.StatusOK, body: `{"status":"ZERO_RESULTS","results":[]}`, errorType: apperrors.ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			geocoder := NewGoogleReverseGeocoderWithOptions("test-key", nil, server.URL, server.Client())
			_, err := geocoder.ReverseGeocode(context.Background(), 1, 2)
			assert.True(t, apperrors.IsType(err, tt.errorType), "got %v", err)
		})
	}
}

func TestGoogleReverseGeocoder_RequiresKey(t *testing.T) {
	geocoder := NewGoogleReverseGeocoderWithOptions("", nil, "http://127.0.0.1:1", nil)
	_, err := geocoder.ReverseGeocode(context.Background(), 1, 2)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestCoordinateLocationProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(austinResponse))
	}))
	defer server.Close()

	provider := NewCoordinateLocationProvider(
		NewGoogleReverseGeocoderWithOptions("test-key", nil, server.URL, server.Client()),
		30.2747, -97.7404,
	)

	loc, err := provider.DefaultLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &entities.Location{City: "Austin", State: "TX", Zip: "78701"}, loc)
}

func TestStaticLocationProvider(t *testing.T) {
	loc, err := NewStaticLocationProvider(" Austin ", "tx").DefaultLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &entities.Location{City: "Austin", State: "TX"}, loc)

	loc, err = NewStaticLocationProvider("", "").DefaultLocation(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestNewFromConfig(t *testing.T) {
	assert.Nil(t, NewFromConfig(config.LocationConfig{Provider: "none"}, nil))
	assert.IsType(t, &StaticLocationProvider{}, NewFromConfig(config.LocationConfig{Provider: "static", City: "Austin"}, nil))
	assert.IsType(t, &CoordinateLocationProvider{}, NewFromConfig(config.LocationConfig{Provider: "Google", APIKey: "k"}, nil))
}
