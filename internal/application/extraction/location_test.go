package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

type stubDefaultLocation struct {
	loc *entities.Location
	err error
}

func (s stubDefaultLocation) DefaultLocation(ctx context.Context) (*entities.Location, error) {
	return s.loc, s.err
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    entities.Location
	}{
		{"near city and state", "I need an orthodontist in Austin, TX, budget under $5000", entities.Location{City: "Austin", State: "TX"}},
		{"multi word city", "looking near San Antonio TX for braces", entities.Location{City: "San Antonio", State: "TX"}},
		{"bare city state", "Patient lives in the area. Palo Alto, CA is fine.", entities.Location{City: "Palo Alto", State: "CA"}},
		{"known city lowercase", "any oral surgeon in houston?", entities.Location{City: "Houston", State: "TX"}},
		{"zip after keyword", "near 78701 please", entities.Location{State: "TX", Zip: "78701"}},
		{"zip after state", "Records go to CA 94301 office", entities.Location{State: "CA", Zip: "94301"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLocation(tt.message)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseLocation_RejectsUnknownStateCodes(t *testing.T) {
	got := ParseLocation("we met at Starbucks XX yesterday")
	assert.Nil(t, got)
}

func TestParseLocation_ClinicianNames(t *testing.T) {
	assert.Nil(t, ParseLocation("Dr. Smith, MD said I need a crown"))
	assert.Nil(t, ParseLocation("Dr Smith, TX office sent the quote"))
	assert.Nil(t, ParseLocation("Sarah Lee, PA recommended implants"))

	got := ParseLocation("Dr. Smith, MD said I need a crown in Austin")
	require.NotNil(t, got)
	assert.Equal(t, entities.Location{City: "Austin", State: "TX"}, *got)

	got = ParseLocation("looking for a periodontist in Baltimore, MD")
	require.NotNil(t, got)
	assert.Equal(t, entities.Location{City: "Baltimore", State: "MD"}, *got)
}

func TestParseLocation_NoMatch(t *testing.T) {
	assert.Nil(t, ParseLocation("I need braces"))
}

func TestLocationStrategies_Order(t *testing.T) {
	names := make([]string, len(LocationStrategies))
	for i, s := range LocationStrategies {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"near_city_state", "city_state", "known_city", "zip_code"}, names)

	// a known city appears first but the explicit city/state strategy wins
	_, name, ok := FirstMatch(LocationStrategies, "moving from Dallas to Boise, ID")
	require.True(t, ok)
	assert.Equal(t, "city_state", name)
}

func TestResolveLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("text wins over fallback", func(t *testing.T) {
		loc, err := ResolveLocation(ctx, "dentist in Dallas", stubDefaultLocation{loc: &entities.Location{City: "Austin"}})
		require.NoError(t, err)
		assert.Equal(t, "Dallas", loc.City)
	})

	t.Run("fallback used when nothing found", func(t *testing.T) {
		loc, err := ResolveLocation(ctx, "I need braces", stubDefaultLocation{loc: &entities.Location{City: "Austin", State: "TX"}})
		require.NoError(t, err)
		assert.Equal(t, &entities.Location{City: "Austin", State: "TX"}, loc)
	})

	t.Run("fallback error is returned", func(t *testing.T) {
		loc, err := ResolveLocation(ctx, "I need braces", stubDefaultLocation{err: errors.New("geocoder down")})
		assert.Error(t, err)
		assert.Nil(t, loc)
	})

	t.Run("empty fallback location is nil", func(t *testing.T) {
		loc, err := ResolveLocation(ctx, "I need braces", stubDefaultLocation{loc: &entities.Location{}})
		require.NoError(t, err)
		assert.Nil(t, loc)
	})

	t.Run("no fallback", func(t *testing.T) {
		loc, err := ResolveLocation(ctx, "I need braces", nil)
		require.NoError(t, err)
		assert.Nil(t, loc)
	})
}

func TestStateForZip(t *testing.T) {
	assert.Equal(t, "TX", StateForZip("78701"))
	assert.Equal(t, "CA", StateForZip("90210"))
	assert.Equal(t, "NY", StateForZip("10001"))
	assert.Equal(t, "MA", StateForZip("02139"))
	assert.Equal(t, "", StateForZip("00501"))
	assert.Equal(t, "", StateForZip("ab"))
}
