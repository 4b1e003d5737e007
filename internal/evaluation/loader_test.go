package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

func TestLoadGoldenChats_ValidFile(t *testing.T) {
	content := `[
		{"id": "c1", "message": "braces in Austin", "expected": {"specialty": "Orthodontics", "city": "Austin", "state": "TX"}, "difficulty": "easy"},
		{"id": "c2", "message": "chest pain", "expected": {"emergency": true, "branch": "emergency"}, "difficulty": "easy"}
	]`
	path := writeTempFile(t, content)

	chats, err := LoadGoldenChats(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}
	if chats[0].Expected.Specialty == nil || *chats[0].Expected.Specialty != "Orthodontics" {
		t.Errorf("expected specialty Orthodontics, got %v", chats[0].Expected.Specialty)
	}
	if chats[1].Expected.Emergency == nil || !*chats[1].Expected.Emergency {
		t.Errorf("expected emergency label on c2")
	}
	if chats[1].Expected.Branch != entities.ChatBranchEmergency {
		t.Errorf("expected emergency branch, got %s", chats[1].Expected.Branch)
	}
}

func TestLoadGoldenChats_InvalidFile(t *testing.T) {
	_, err := LoadGoldenChats("/nonexistent/path.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGoldenChats_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, `not valid json`)
	_, err := LoadGoldenChats(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadGoldenChats_BundledSetIsValid(t *testing.T) {
	chats, err := LoadGoldenChats(filepath.Join("testdata", "golden_chats.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chats) == 0 {
		t.Fatal("expected bundled golden chats")
	}
	if err := ValidateGoldenChats(chats); err != nil {
		t.Fatalf("bundled golden chats invalid: %v", err)
	}
}

func TestValidateGoldenChats(t *testing.T) {
	ortho := "Orthodontics"
	bogus := "Podiatry"
	lo, hi := 5000.0, 4000.0

	tests := []struct {
		name  string
		chats []GoldenChat
		valid bool
	}{
		{name: "valid", chats: []GoldenChat{{ID: "c1", Message: "braces", Difficulty: "easy", Expected: Expectation{Specialty: &ortho}}}, valid: true},
		{name: "missing id", chats: []GoldenChat{{Message: "braces", Difficulty: "easy"}}},
		{name: "blank message", chats: []GoldenChat{{ID: "c1", Message: "  ", Difficulty: "easy"}}},
		{name: "bad difficulty", chats: []GoldenChat{{ID: "c1", Message: "braces", Difficulty: "impossible"}}},
		{name: "duplicate ids", chats: []GoldenChat{
			{ID: "c1", Message: "braces", Difficulty: "easy"},
			{ID: "c1", Message: "implants", Difficulty: "easy"},
		}},
		{name: "unknown specialty", chats: []GoldenChat{{ID: "c1", Message: "feet", Difficulty: "easy", Expected: Expectation{Specialty: &bogus}}}},
		{name: "bad intent", chats: []GoldenChat{{ID: "c1", Message: "braces", Difficulty: "easy", Expected: Expectation{Intent: "shopping"}}}},
		{name: "bad urgency", chats: []GoldenChat{{ID: "c1", Message: "braces", Difficulty: "easy", Expected: Expectation{Urgency: "critical"}}}},
		{name: "bad branch", chats: []GoldenChat{{ID: "c1", Message: "braces", Difficulty: "easy", Expected: Expectation{Branch: "auction"}}}},
		{name: "half price range", chats: []GoldenChat{{ID: "c1", Message: "braces", Difficulty: "easy", Expected: Expectation{PriceMin: &lo}}}},
		{name: "inverted price range", chats: []GoldenChat{{ID: "c1", Message: "braces", Difficulty: "easy", Expected: Expectation{PriceMin: &lo, PriceMax: &hi}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGoldenChats(tt.chats)
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
