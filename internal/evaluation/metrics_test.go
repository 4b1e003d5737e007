package evaluation

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestRecallAtK(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		matched  []string
		k        int
		want     float64
	}{
		{name: "all expected in top 3", expected: []string{"ortho-1", "ortho-2"}, matched: []string{"ortho-2", "ortho-1", "general-1"}, k: 3, want: 1},
		{name: "half found", expected: []string{"ortho-1", "ortho-3"}, matched: []string{"ortho-1", "ortho-2"}, k: 3, want: 0.5},
		{name: "cut off by k", expected: []string{"jaw-2"}, matched: []string{"jaw-1", "oral-2", "oral-1", "jaw-2"}, k: 3, want: 0},
		{name: "matched shorter than k", expected: []string{"oral-1"}, matched: []string{"oral-1"}, k: 3, want: 1},
		{name: "no expected ids", expected: nil, matched: []string{"ortho-1"}, k: 3, want: 0},
		{name: "no matches", expected: []string{"ortho-1"}, matched: nil, k: 3, want: 0},
		{name: "duplicate matches counted once", expected: []string{"ortho-1", "ortho-2"}, matched: []string{"ortho-1", "ortho-1"}, k: 3, want: 0.5},
		{name: "zero k keeps all", expected: []string{"jaw-2"}, matched: []string{"jaw-1", "oral-2", "oral-1", "jaw-2"}, k: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecallAtK(tt.expected, tt.matched, tt.k); !almostEqual(got, tt.want) {
				t.Errorf("RecallAtK() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMRRAtK(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		matched  []string
		want     float64
	}{
		{name: "first", expected: []string{"ortho-1"}, matched: []string{"ortho-1", "ortho-2"}, want: 1},
		{name: "third", expected: []string{"general-1"}, matched: []string{"ortho-1", "ortho-2", "general-1"}, want: 1.0 / 3.0},
		{name: "outside cutoff", expected: []string{"jaw-2"}, matched: []string{"a", "b", "c", "jaw-2"}, want: 0},
		{name: "first of several expected", expected: []string{"c", "b"}, matched: []string{"a", "b", "c"}, want: 0.5},
		{name: "empty expected", expected: nil, matched: []string{"a"}, want: 0},
		{name: "empty matched", expected: []string{"a"}, matched: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MRRAtK(tt.expected, tt.matched, 3); !almostEqual(got, tt.want) {
				t.Errorf("MRRAtK() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(3, 4); !almostEqual(got, 0.75) {
		t.Errorf("expected 0.75, got %f", got)
	}
	if got := Accuracy(0, 0); got != 0 {
		t.Errorf("expected 0 for nothing scored, got %f", got)
	}
}
