package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// LoadGoldenChats reads and parses a golden chat set from a JSON file.
func LoadGoldenChats(path string) ([]GoldenChat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden chats file: %w", err)
	}

	var chats []GoldenChat
	if err := json.Unmarshal(data, &chats); err != nil {
		return nil, fmt.Errorf("failed to parse golden chats: %w", err)
	}

	return chats, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenChats checks that every golden chat has required fields and valid labels.
func ValidateGoldenChats(chats []GoldenChat) error {
	seen := make(map[string]struct{}, len(chats))

	for i, c := range chats {
		if c.ID == "" {
			return fmt.Errorf("chat at index %d: missing id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("chat at index %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}

		if strings.TrimSpace(c.Message) == "" {
			return fmt.Errorf("chat %q: missing message", c.ID)
		}
		if !validDifficulties[c.Difficulty] {
			return fmt.Errorf("chat %q: invalid difficulty %q (must be easy/medium/hard)", c.ID, c.Difficulty)
		}
		if err := validateExpectation(c.Expected); err != nil {
			return fmt.Errorf("chat %q: %w", c.ID, err)
		}
	}

	return nil
}

func validateExpectation(e Expectation) error {
	if e.Specialty != nil && *e.Specialty != "" && !knownSpecialty(*e.Specialty) {
		return fmt.Errorf("unknown specialty %q", *e.Specialty)
	}
	switch e.Intent {
	case "", entities.IntentConsultation, entities.IntentInformation, entities.IntentPricing, entities.IntentScheduling, entities.IntentGeneral:
	default:
		return fmt.Errorf("invalid intent %q", e.Intent)
	}
	switch e.Urgency {
	case "", entities.UrgencyLow, entities.UrgencyMedium, entities.UrgencyHigh:
	default:
		return fmt.Errorf("invalid urgency %q", e.Urgency)
	}
	switch e.Branch {
	case "", entities.ChatBranchEmergency, entities.ChatBranchOffDomain, entities.ChatBranchProviderMatch,
		entities.ChatBranchNoMatch, entities.ChatBranchInformational:
	default:
		return fmt.Errorf("invalid branch %q", e.Branch)
	}
	if (e.PriceMin == nil) != (e.PriceMax == nil) {
		return fmt.Errorf("price_min and price_max must be set together")
	}
	if e.PriceMin != nil && *e.PriceMin > *e.PriceMax {
		return fmt.Errorf("price_min %.0f exceeds price_max %.0f", *e.PriceMin, *e.PriceMax)
	}
	return nil
}

func knownSpecialty(name string) bool {
	switch entities.Specialty(name) {
	case entities.SpecialtyOrthodontics, entities.SpecialtyOralSurgery, entities.SpecialtyJawSurgery, entities.SpecialtyGeneralDentistry:
		return true
	}
	return false
}
