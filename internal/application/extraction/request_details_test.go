package extraction

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPreferredDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	week := now.Add(7 * 24 * time.Hour)

	for _, msg := range []string{
		"can I come in next week",
		"tomorrow works",
		"any time on 03/15/2026",
		"is March 12th open",
	} {
		t.Run(msg, func(t *testing.T) {
			got := ExtractPreferredDate(msg, now)
			require.NotNil(t, got)
			assert.Equal(t, week, *got)
		})
	}

	assert.Nil(t, ExtractPreferredDate("whenever is fine", now))
}

func TestSummarizeRequest(t *testing.T) {
	assert.Equal(t, `Auto-generated from chat: "need braces..."`, SummarizeRequest("  need braces "))

	long := strings.Repeat("a", 250)
	got := SummarizeRequest(long)
	assert.Equal(t, `Auto-generated from chat: "`+strings.Repeat("a", 200)+`..."`, got)
}
