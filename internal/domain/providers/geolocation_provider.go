package providers

import (
	"context"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// GeolocationProvider resolves coordinates into a postal address
type GeolocationProvider interface {
	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodedAddress, error)
}

// DefaultLocationProvider supplies a location when a message names none.
// A nil location with a nil error means no default is known.
type DefaultLocationProvider interface {
	DefaultLocation(ctx context.Context) (*entities.Location, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string
	City             string
	State            string
	ZipCode          string
	Country          string
	Coordinates      Coordinates
}
