package extraction

import (
	"regexp"
	"strings"
)

// medicalStems match any word starting with them
var medicalStems = []string{
	"orthodont", "dentist", "dental", "diagnos", "medic", "therap", "pharma", "anesthe",
	"anaesthe", "consult", "symptom", "prescri", "physician", "clinic", "hospital", "health",
}

// medicalWords match as whole words with simple inflections. Generic money words
// (cost, price, budget) are left out so they never outvote an off-domain term.
var medicalWords = []string{
	"doctor", "tooth", "teeth", "toothache", "braces", "invisalign", "surgery", "surgeries",
	"surgeon", "surgical", "pain", "painful", "ache", "aching", "treatment", "procedure",
	"quote", "estimate", "insurance", "copay", "deductible", "appointment", "implant", "jaw",
	"gum", "cavity", "cavities", "crown", "filling", "root canal", "extraction", "wisdom",
	"x-ray", "xray", "patient", "bill", "cpt", "icd", "specialist", "nurse", "injury",
	"injuries", "swelling", "swollen", "infection", "tmj", "oral", "checkup", "cleaning", "care",
}

// offDomainTerms are whole words, optionally plural, that mark off-topic chatter
var offDomainTerms = []string{
	"stock", "crypto", "bitcoin", "ethereum", "forex", "investing", "investment", "javascript",
	"python", "programming", "software", "code", "coding", "laptop", "iphone", "football",
	"soccer", "basketball", "baseball", "nba", "nfl", "playoff", "election", "president",
	"politics", "political", "senate", "congress", "marketing", "seo", "advertising", "movie",
	"recipe", "lottery",
}

var (
	medicalStemRe = buildStemRegexp(medicalStems)
	medicalWordRe = buildWordRegexp(medicalWords, `(?:s|es|d|ed|ing)?`)
	offDomainRe   = buildWordRegexp(offDomainTerms, `s?`)
)

func buildWordRegexp(words []string, suffix string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)` + suffix + `\b`)
}

func buildStemRegexp(stems []string) *regexp.Regexp {
	quoted := make([]string, len(stems))
	for i, s := range stems {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\w*`)
}

// IsMedicalDomain accepts text that has any medical term, or has no off-domain term at all
func IsMedicalDomain(text string) bool {
	if medicalStemRe.MatchString(text) || medicalWordRe.MatchString(text) {
		return true
	}
	return !offDomainRe.MatchString(text)
}
