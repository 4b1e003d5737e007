package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

func TestClassifySpecialty(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    entities.Specialty
	}{
		{"orthodontist", "I need an orthodontist in Austin, TX", entities.SpecialtyOrthodontics},
		{"invisalign", "How much is Invisalign?", entities.SpecialtyOrthodontics},
		{"wisdom teeth", "my wisdom teeth hurt", entities.SpecialtyOralSurgery},
		{"tmj", "I think I have TMJ problems", entities.SpecialtyJawSurgery},
		{"root canal", "do I need a root canal", entities.SpecialtyGeneralDentistry},
		// "dental implants" also contains "dental": one hit each, first declared wins
		{"tie goes to first declared", "quote for dental implants", entities.SpecialtyOralSurgery},
		// two general dentistry hits beat one orthodontics hit
		{"most hits wins", "dentist for a cleaning and braces check", entities.SpecialtyGeneralDentistry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySpecialty(tt.message)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestClassifySpecialty_NoMatch(t *testing.T) {
	assert.Nil(t, ClassifySpecialty("what time is it"))
	assert.Nil(t, ClassifySpecialty(""))
}

func TestClassifySpecialtyWith_CustomTable(t *testing.T) {
	table := append([]KeywordSet[entities.Specialty]{
		{Label: "Dermatology", Keywords: []string{"acne", "rash", "mole"}},
	}, DefaultSpecialtyTable...)

	got := ClassifySpecialtyWith(table, "a mole on my arm")
	require.NotNil(t, got)
	assert.Equal(t, entities.Specialty("Dermatology"), *got)
}

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		message string
		want    entities.Urgency
	}{
		{"I need this done ASAP", entities.UrgencyHigh},
		{"can someone see me today", entities.UrgencyHigh},
		{"dental emergency", entities.UrgencyHigh},
		{"hoping to get in next week", entities.UrgencyMedium},
		{"sometime soon please", entities.UrgencyMedium},
		// high keywords are checked before medium ones
		{"soon, ideally right away", entities.UrgencyHigh},
		{"just exploring options", entities.UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyUrgency(tt.message))
		})
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		message string
		want    entities.Intent
	}{
		{"I'm looking for an orthodontist", entities.IntentConsultation},
		{"how much does it cost", entities.IntentPricing},
		{"can I book an appointment", entities.IntentScheduling},
		{"what is a root canal", entities.IntentInformation},
		// consultation is declared before pricing
		{"I need something affordable", entities.IntentConsultation},
		{"hello there", entities.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.message))
		})
	}
}
