package location

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/zatekoja/doction/backend/internal/domain/providers"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

const (
	googleGeocodeURL       = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultReverseCacheTTL = 60 * 60 * 24 * 30
	defaultHTTPTimeout     = 8 * time.Second
)

// GoogleReverseGeocoder implements GeolocationProvider using the Google Geocoding API.
type GoogleReverseGeocoder struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

// NewGoogleReverseGeocoder creates a new Google reverse geocoder.
func NewGoogleReverseGeocoder(apiKey string, cache providers.CacheProvider) *GoogleReverseGeocoder {
	return NewGoogleReverseGeocoderWithOptions(apiKey, cache, googleGeocodeURL, nil)
}

// NewGoogleReverseGeocoderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleReverseGeocoderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *GoogleReverseGeocoder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleReverseGeocoder{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
	}
}

var _ providers.GeolocationProvider = (*GoogleReverseGeocoder)(nil)

// ReverseGeocode converts coordinates to an address.
func (g *GoogleReverseGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	cacheKey := "geo:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", lat, lon))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var address providers.GeocodedAddress
			if err := json.Unmarshal(cached, &address); err == nil && address.City != "" {
				return &address, nil
			}
		}
	}

	resp, err := g.doGeocodeRequest(ctx, url.Values{"latlng": []string{fmt.Sprintf("%f,%f", lat, lon)}})
	if err != nil {
		return nil, apperrors.NewExternalError("reverse geocode failed", err)
	}

	if len(resp.Results) == 0 {
		return nil, apperrors.NewNotFoundError("no results for coordinates")
	}

	result := resp.Results[0]
	address := providers.GeocodedAddress{
		FormattedAddress: result.FormattedAddress,
		City:             component(result.AddressComponents, false, "locality", "administrative_area_level_2"),
		State:            component(result.AddressComponents, true, "administrative_area_level_1"),
		ZipCode:          component(result.AddressComponents, false, "postal_code"),
		Country:          component(result.AddressComponents, true, "country"),
		Coordinates: providers.Coordinates{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
	}

	if g.cache != nil {
		if payload, err := json.Marshal(address); err == nil {
			_ = g.cache.Set(ctx, cacheKey, payload, defaultReverseCacheTTL)
		}
	}

	return &address, nil
}

func (g *GoogleReverseGeocoder) doGeocodeRequest(ctx context.Context, params url.Values) (*googleGeocodeResponse, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if payload.Status == "ZERO_RESULTS" {
		return &payload, nil
	}
	if payload.Status != "OK" {
		if payload.ErrorMessage != "" {
			return nil, fmt.Errorf("geocode request failed: %s - %s", payload.Status, payload.ErrorMessage)
		}
		return nil, fmt.Errorf("geocode request failed: %s", payload.Status)
	}

	return &payload, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// component returns the first component matching types, in order.
// short selects the abbreviated name (TX rather than Texas).
func component(components []googleAddressComponent, short bool, types ...string) string {
	for _, t := range types {
		for _, comp := range components {
			if !slices.Contains(comp.Types, t) {
				continue
			}
			if short && comp.ShortName != "" {
				return comp.ShortName
			}
			return comp.LongName
		}
	}
	return ""
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress  string                   `json:"formatted_address"`
	AddressComponents []googleAddressComponent `json:"address_components"`
	Geometry          googleGeometry           `json:"geometry"`
}

type googleAddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
