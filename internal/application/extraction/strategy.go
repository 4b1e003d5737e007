// Package extraction turns raw patient messages into structured signals.
//
// Every extractor is a pure function of its input text. Parsers that try several
// patterns are written as ordered lists of named strategies so each fallback can be
// tested on its own.
package extraction

import "strings"

// Strategy is one named attempt in an ordered fallback chain
type Strategy[T any] struct {
	Name  string
	Apply func(text string) (T, bool)
}

// FirstMatch runs strategies in order and returns the first successful result
// together with the name of the strategy that produced it.
func FirstMatch[T any](strategies []Strategy[T], text string) (T, string, bool) {
	for _, s := range strategies {
		if v, ok := s.Apply(text); ok {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// KeywordSet is a label with the lowercase phrases that indicate it
type KeywordSet[L any] struct {
	Label    L
	Keywords []string
}

// countHits returns how many keywords occur in the lowercased text
func countHits(lower string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

// firstLabel returns the label of the first set with any hit
func firstLabel[L any](table []KeywordSet[L], text string) (L, bool) {
	lower := strings.ToLower(text)
	for _, row := range table {
		if countHits(lower, row.Keywords) > 0 {
			return row.Label, true
		}
	}
	var zero L
	return zero, false
}
