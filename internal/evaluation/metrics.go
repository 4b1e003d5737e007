package evaluation

// topK returns the first k items of retrieved; k <= 0 keeps everything.
func topK(retrieved []string, k int) []string {
	if k > 0 && k < len(retrieved) {
		return retrieved[:k]
	}
	return retrieved
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// RecallAtK is the fraction of expected provider ids present in the top-K matches.
// Returns 0 when expected is empty.
func RecallAtK(expected, matched []string, k int) float64 {
	if len(expected) == 0 {
		return 0
	}

	want := toSet(expected)
	found := 0
	for _, id := range topK(matched, k) {
		if _, ok := want[id]; ok {
			found++
			delete(want, id)
		}
	}
	return float64(found) / float64(len(expected))
}

// MRRAtK is the reciprocal rank of the first expected provider in the top-K matches,
// or 0 when none appears.
func MRRAtK(expected, matched []string, k int) float64 {
	if len(expected) == 0 || len(matched) == 0 {
		return 0
	}

	want := toSet(expected)
	for i, id := range topK(matched, k) {
		if _, ok := want[id]; ok {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// Accuracy is correct/scored, or 0 when nothing was scored.
func Accuracy(correct, scored int) float64 {
	if scored == 0 {
		return 0
	}
	return float64(correct) / float64(scored)
}
