package location

import (
	"context"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
	"github.com/zatekoja/doction/backend/pkg/config"
)

// StaticLocationProvider always answers with a fixed city and state
type StaticLocationProvider struct {
	location *entities.Location
}

// NewStaticLocationProvider returns a provider for city/state. Both empty means no default.
func NewStaticLocationProvider(city, state string) *StaticLocationProvider {
	loc := &entities.Location{City: strings.TrimSpace(city), State: strings.ToUpper(strings.TrimSpace(state))}
	if loc.IsZero() {
		loc = nil
	}
	return &StaticLocationProvider{location: loc}
}

func (p *StaticLocationProvider) DefaultLocation(context.Context) (*entities.Location, error) {
	if p.location == nil {
		return nil, nil
	}
	loc := *p.location
	return &loc, nil
}

// CoordinateLocationProvider reverse geocodes a configured point into a default location
type CoordinateLocationProvider struct {
	geocoder providers.GeolocationProvider
	lat, lon float64
}

// NewCoordinateLocationProvider creates a provider that resolves lat/lon through geocoder
func NewCoordinateLocationProvider(geocoder providers.GeolocationProvider, lat, lon float64) *CoordinateLocationProvider {
	return &CoordinateLocationProvider{geocoder: geocoder, lat: lat, lon: lon}
}

func (p *CoordinateLocationProvider) DefaultLocation(ctx context.Context) (*entities.Location, error) {
	address, err := p.geocoder.ReverseGeocode(ctx, p.lat, p.lon)
	if err != nil {
		return nil, err
	}
	loc := &entities.Location{City: address.City, State: address.State, Zip: address.ZipCode}
	if loc.IsZero() {
		return nil, nil
	}
	return loc, nil
}

// NewFromConfig selects the default location source named by cfg.Provider.
// "google" reverse geocodes the configured coordinates and "static" uses the
// configured city and state. Anything else disables the fallback.
func NewFromConfig(cfg config.LocationConfig, cache providers.CacheProvider) providers.DefaultLocationProvider {
	switch strings.ToLower(cfg.Provider) {
	case "google":
		return NewCoordinateLocationProvider(NewGoogleReverseGeocoder(cfg.APIKey, cache), cfg.Latitude, cfg.Longitude)
	case "static":
		return NewStaticLocationProvider(cfg.City, cfg.State)
	default:
		return nil
	}
}
