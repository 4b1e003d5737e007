package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var insuranceKeywords = []string{"insurance", "covered", "copay", "deductible", "ppo", "hmo", "delta dental", "aetna", "cigna"}

var preferredDateRe = regexp.MustCompile(`(?i)\b(?:next\s+week|this\s+week|tomorrow|today|\d{1,2}/\d{1,2}/\d{4}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?)\b`)

// preferredDateLead is how far ahead a mentioned date is scheduled
const preferredDateLead = 7 * 24 * time.Hour

const summaryPreviewLength = 200

// DetectInsurance reports whether the patient mentions insurance coverage
func DetectInsurance(text string) bool {
	return countHits(strings.ToLower(text), insuranceKeywords) > 0
}

// ExtractPreferredDate returns now plus one week when the message mentions any date
// or relative day, and nil otherwise. The mentioned date itself is not parsed.
func ExtractPreferredDate(text string, now time.Time) *time.Time {
	if !preferredDateRe.MatchString(text) {
		return nil
	}
	d := now.Add(preferredDateLead)
	return &d
}

// SummarizeRequest builds the provider-facing note for a request created from chat
func SummarizeRequest(text string) string {
	preview := strings.TrimSpace(text)
	if utf8.RuneCountInString(preview) > summaryPreviewLength {
		preview = string([]rune(preview)[:summaryPreviewLength])
	}
	return fmt.Sprintf(`Auto-generated from chat: "%s..."`, preview)
}
