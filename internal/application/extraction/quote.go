package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

const (
	minQuoteTextLength = 10
	maxComponentLabel  = 80

	// minInferredTotal keeps code-like small numbers from being read as a total
	minInferredTotal = 30
)

var (
	// groups: 1 currency sign, 2 amount after sign or code, 3 comma grouped amount, 4 amount with cents
	moneyRe = regexp.MustCompile(`(?i)(?:([$€£])\s*|\b(?:usd|eur|gbp|aud|cad)\s*)(\d[\d,]*(?:\.\d{1,2})?)|\b(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?)\b|\b(\d+\.\d{2})\b`)

	bareNumberRe     = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`)
	totalLineRe      = regexp.MustCompile(`(?i)\b(?:total|amount\s+due|balance\s+due)\b`)
	estimateLineRe   = regexp.MustCompile(`(?i)\bestimated?\b`)
	componentHintRe  = regexp.MustCompile(`(?i)\b(?:surgeon|surgical|surgery|facility|hospital|anesthe\w*|anaesthe\w*|sedation|implants?|abutments?|crowns?|labs?|laboratory|imaging|x-?rays?|ct\s+scan|cbct|mri|consult(?:ation)?|extractions?|bone\s+graft\w*|medications?|follow-?up|pathology|operating\s+room)\b`)
	quoteKeywordRe   = regexp.MustCompile(`(?i)\b(?:quote[ds]?|quotation|estimates?|invoice|itemi[sz]ed|treatment\s+plan|cpt|icd(?:-?10)?|billing\s+codes?)\b`)
	cptCandidateRe   = regexp.MustCompile(`\b\d{5}\b`)
	cptTokenRe       = regexp.MustCompile(`^\d{5}$`)
	icd10CandidateRe = regexp.MustCompile(`\b[A-Z]\d[0-9A-Z](?:\.[0-9A-Z]{1,4})?\b`)
	cdtCandidateRe   = regexp.MustCompile(`\bD\d{4}\b`)
	currencyCodeRe   = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|AUD|CAD)\b`)
	labelTrim        = " \t:-–—*•|=."
)

// CurrencyStrategies decide the quote currency; explicit ISO codes win over symbols
var CurrencyStrategies = []Strategy[string]{
	{Name: "iso_code", Apply: func(text string) (string, bool) {
		if m := currencyCodeRe.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1]), true
		}
		return "", false
	}},
	{Name: "dollar_prefix", Apply: func(text string) (string, bool) {
		switch {
		case strings.Contains(text, "CA$") || strings.Contains(text, "C$"):
			return "CAD", true
		case strings.Contains(text, "AU$") || strings.Contains(text, "A$"):
			return "AUD", true
		}
		return "", false
	}},
	{Name: "symbol", Apply: func(text string) (string, bool) {
		switch {
		case strings.Contains(text, "€"):
			return "EUR", true
		case strings.Contains(text, "£"):
			return "GBP", true
		case strings.Contains(text, "$"):
			return "USD", true
		}
		return "", false
	}},
}

// DetectCurrency returns the ISO code of the quote currency, USD when none is marked
func DetectCurrency(text string) string {
	if code, _, ok := FirstMatch(CurrencyStrategies, text); ok {
		return code
	}
	return "USD"
}

type moneyMatch struct {
	start  int
	end    int
	amount float64
}

func findMoney(text string) []moneyMatch {
	var out []moneyMatch
	for _, idx := range moneyRe.FindAllStringSubmatchIndex(text, -1) {
		var digits string
		for g := 2; g <= 4; g++ {
			if idx[2*g] >= 0 {
				digits = text[idx[2*g]:idx[2*g+1]]
				break
			}
		}
		v, ok := ParseAmount(strings.TrimRight(digits, ","), false)
		if !ok {
			continue
		}
		out = append(out, moneyMatch{start: idx[0], end: idx[1], amount: v})
	}
	return out
}

// ParseQuote extracts a structured quote from pasted or OCR text. It returns nil
// for text under ten characters and for text that carries no quote evidence
// (a total line, an itemized amount, billing codes or quote vocabulary).
func ParseQuote(text, source string) *entities.ParsedQuote {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minQuoteTextLength {
		return nil
	}
	if source == "" {
		source = entities.QuoteSourceChat
	}

	quote := &entities.ParsedQuote{
		Source:     source,
		Currency:   DetectCurrency(trimmed),
		CPTCodes:   extractCPTCodes(trimmed),
		ICD10Codes: uniqueMatches(icd10CandidateRe, trimmed),
		CDTCodes:   uniqueMatches(cdtCandidateRe, trimmed),
	}

	lines := strings.Split(trimmed, "\n")
	quote.Total = totalFromLines(lines)
	var plainItems int
	quote.Components, plainItems = componentsFromLines(lines)

	allMoney := findMoney(trimmed)
	if !hasQuoteEvidence(quote, trimmed, len(allMoney) > 0, plainItems) {
		return nil
	}

	if quote.Total == nil {
		var best float64
		for _, m := range allMoney {
			if m.amount > minInferredTotal && m.amount > best {
				best = m.amount
			}
		}
		for _, c := range quote.Components {
			if c.Amount != nil && *c.Amount > minInferredTotal && *c.Amount > best {
				best = *c.Amount
			}
		}
		if best > 0 {
			quote.Total = &best
		}
	}
	return quote
}

// hasQuoteEvidence needs two or more line items priced with plain numbers, so a
// single "crown 1500" sentence is not a quote
func hasQuoteEvidence(q *entities.ParsedQuote, text string, hasMoney bool, plainItems int) bool {
	if q.Total != nil || len(q.ICD10Codes) > 0 || len(q.CDTCodes) > 0 {
		return true
	}
	if len(q.CPTCodes) > 0 && hasMoney {
		return true
	}
	if plainItems >= 2 {
		return true
	}
	if hasMoney {
		for _, c := range q.Components {
			if c.Amount != nil {
				return true
			}
		}
	}
	return quoteKeywordRe.MatchString(text)
}

func isEstimateLine(line string) bool {
	return estimateLineRe.MatchString(line) && !totalLineRe.MatchString(line)
}

// isTotalLine matches total, amount due and balance due lines, plus estimate
// lines that carry an amount or name no itemized component
func isTotalLine(line string) bool {
	if totalLineRe.MatchString(line) {
		return true
	}
	if !estimateLineRe.MatchString(line) {
		return false
	}
	if _, ok := totalOnLine(line); ok {
		return true
	}
	return !componentHintRe.MatchString(line)
}

// totalFromLines prefers explicit total lines over estimate lines
func totalFromLines(lines []string) *float64 {
	for _, match := range []func(string) bool{totalLineRe.MatchString, isEstimateLine} {
		for _, line := range lines {
			if !match(line) {
				continue
			}
			if v, ok := totalOnLine(line); ok {
				return &v
			}
		}
	}
	return nil
}

func totalOnLine(line string) (float64, bool) {
	if money := findMoney(line); len(money) > 0 && money[0].amount > 0 {
		return money[0].amount, true
	}
	// any bare number counts after an explicit total keyword
	if loc := totalLineRe.FindStringIndex(line); loc != nil {
		if n := bareNumberRe.FindString(line[loc[1]:]); n != "" {
			if v, ok := ParseAmount(strings.TrimRight(n, ","), false); ok && v > 0 {
				return v, true
			}
		}
	}
	if m, ok := plainAmount(line); ok {
		return m.amount, true
	}
	return 0, false
}

// plainAmount returns the last unmarked number on line that can be a price:
// above minInferredTotal and not a five digit CPT code. Budget phrases such as
// "under 2000" never count.
func plainAmount(line string) (moneyMatch, bool) {
	if ParsePriceRange(line) != nil {
		return moneyMatch{}, false
	}
	matches := bareNumberRe.FindAllStringIndex(line, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]
		token := strings.TrimRight(line[start:end], ",")
		if cptTokenRe.MatchString(token) {
			continue
		}
		v, ok := ParseAmount(token, false)
		if !ok || v <= minInferredTotal {
			continue
		}
		return moneyMatch{start: start, end: end, amount: v}, true
	}
	return moneyMatch{}, false
}

// componentsFromLines also reports how many components were priced by a plain number
func componentsFromLines(lines []string) ([]entities.QuoteComponent, int) {
	var (
		components []entities.QuoteComponent
		plain      int
	)
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || isTotalLine(line) || !componentHintRe.MatchString(line) {
			continue
		}

		component := entities.QuoteComponent{}
		m, found := moneyMatch{}, false
		if money := findMoney(line); len(money) > 0 {
			m, found = money[0], true
		} else if m, found = plainAmount(line); found {
			plain++
		}
		if found {
			v := m.amount
			component.Amount = &v
			component.Label = cleanLabel(line[:m.start])
			if component.Label == "" {
				component.Label = cleanLabel(line[m.end:])
			}
		} else {
			component.Label = cleanLabel(line)
		}
		if component.Label == "" {
			continue
		}
		components = append(components, component)
	}
	return components, plain
}

func cleanLabel(s string) string {
	s = strings.Trim(strings.TrimSpace(s), labelTrim)
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxComponentLabel {
		s = string([]rune(s)[:maxComponentLabel])
	}
	return s
}

func extractCPTCodes(text string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, idx := range cptCandidateRe.FindAllStringIndex(text, -1) {
		if isPartOfAmount(text, idx[0], idx[1]) {
			continue
		}
		code := text[idx[0]:idx[1]]
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// isPartOfAmount reports whether the digits at [start,end) belong to a money figure
func isPartOfAmount(text string, start, end int) bool {
	before := strings.TrimRight(text[:start], " ")
	if strings.HasSuffix(before, "$") || strings.HasSuffix(before, "€") || strings.HasSuffix(before, "£") {
		return true
	}
	if start > 0 && text[start-1] == '.' {
		return true
	}
	return end+1 < len(text) && text[end] == '.' && text[end+1] >= '0' && text[end+1] <= '9'
}

func uniqueMatches(re *regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range re.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
