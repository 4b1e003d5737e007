package extraction

import "regexp"

// RedFlag is a named pattern that indicates a possible medical emergency
type RedFlag struct {
	Name    string
	Pattern *regexp.Regexp
}

// EmergencyRedFlags is checked before anything else in a chat turn
var EmergencyRedFlags = []RedFlag{
	{Name: "chest_pain", Pattern: regexp.MustCompile(`(?i)\bchest\s+(?:pain|pressure|tightness)\b`)},
	{Name: "shortness_of_breath", Pattern: regexp.MustCompile(`(?i)\b(?:shortness\s+of\s+breath|short\s+of\s+breath|can['’]?t\s+breathe|cannot\s+breathe|trouble\s+breathing|difficulty\s+breathing|struggling\s+to\s+breathe)\b`)},
	{Name: "fainting", Pattern: regexp.MustCompile(`(?i)\b(?:fainted|fainting|(?:feel(?:s|ing)?|felt|about\s+to|going\s+to)\s+faint|passed\s+out|unconscious|loss\s+of\s+consciousness)\b`)},
	{Name: "stroke_signs", Pattern: regexp.MustCompile(`(?i)\b(?:(?:having|had|has|suffered)\s+a\s+(?:mini[-\s]?)?stroke|signs?\s+of\s+(?:a\s+)?stroke|stroke\s+symptoms?|face\s+(?:is\s+)?droop(?:ing|s)?|facial\s+droop(?:ing)?|slurred\s+speech|sudden\s+(?:numbness|weakness|confusion))\b`)},
	{Name: "uncontrolled_bleeding", Pattern: regexp.MustCompile(`(?i)\b(?:uncontrolled|heavy|severe|profuse)\s+bleeding\b|\bbleeding\s+(?:that\s+)?(?:won['’]?t|will\s+not|doesn['’]?t|does\s+not)\s+stop\b|\bcan['’]?t\s+stop\s+(?:the\s+)?bleeding\b`)},
	{Name: "anaphylaxis", Pattern: regexp.MustCompile(`(?i)\b(?:anaphyla\w*|throat\s+(?:is\s+)?(?:closing|swelling)|swollen\s+throat|tongue\s+(?:is\s+)?swelling|severe\s+allergic\s+reaction)\b`)},
	{Name: "self_harm", Pattern: regexp.MustCompile(`(?i)\b(?:suicid\w*|kill\s+myself|self[-\s]?harm|hurt\s+myself|end\s+my\s+life|want\s+to\s+die)\b`)},
}

// DetectEmergency returns the names of every red flag in text, in table order.
// An empty result means no emergency.
func DetectEmergency(text string) []string {
	var flags []string
	for _, rf := range EmergencyRedFlags {
		if rf.Pattern.MatchString(text) {
			flags = append(flags, rf.Name)
		}
	}
	return flags
}
