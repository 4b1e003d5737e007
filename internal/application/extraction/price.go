package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// amountPattern captures: 1 currency sign, 2 digits, 3 "k" suffix, 4 trailing unit word
const amountPattern = `(\$\s*)?\b(\d{1,3}(?:[, ]\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)(?:\s?([kK])\b)?(\s*(?:usd|dollars|bucks)\b)?`

// minBareAmount is the smallest number accepted as money without a sign, suffix or unit
const minBareAmount = 100

var (
	rangeRe  = regexp.MustCompile(`(?i)(?:between\s+)?` + amountPattern + `\s*(to|and|-|–)\s*` + amountPattern)
	underRe  = regexp.MustCompile(`(?i)\b(?:under|less\s+than|below|no\s+more\s+than|up\s+to|max(?:imum)?(?:\s+of)?)\s*` + amountPattern)
	aroundRe = regexp.MustCompile(`(?i)(?:\b(?:around|about|approximately|roughly)\s*|~\s*)` + amountPattern)
	budgetRe = regexp.MustCompile(`(?i)\bbudget\s*(?:is|of|:)?\s*` + amountPattern)
)

// PriceStrategies is the ordered fallback chain used by ParsePriceRange
var PriceStrategies = []Strategy[*entities.PriceRange]{
	{Name: "range", Apply: matchRange},
	{Name: "under", Apply: capStrategy(underRe)},
	{Name: "around", Apply: matchAround},
	{Name: "budget", Apply: capStrategy(budgetRe)},
}

// ParsePriceRange returns the first budget the strategies find, or nil
func ParsePriceRange(text string) *entities.PriceRange {
	r, _, ok := FirstMatch(PriceStrategies, text)
	if !ok {
		return nil
	}
	return r
}

// ParseAmount parses a number with optional thousands separators and a "k" suffix
func ParseAmount(digits string, kSuffix bool) (float64, bool) {
	clean := strings.NewReplacer(",", "", " ", "").Replace(digits)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	if kSuffix {
		v *= 1000
	}
	return v, true
}

// amountAt reads the amount whose four groups start at offset off within a submatch
func amountAt(m []string, off int, requireMoney bool) (float64, bool) {
	v, ok := ParseAmount(m[off+1], m[off+2] != "")
	if !ok {
		return 0, false
	}
	if requireMoney && !isExplicitMoney(m, off) && v < minBareAmount {
		return 0, false
	}
	return v, true
}

func isExplicitMoney(m []string, off int) bool {
	return m[off] != "" || m[off+2] != "" || m[off+3] != ""
}

func matchRange(text string) (*entities.PriceRange, bool) {
	for _, m := range rangeRe.FindAllStringSubmatch(text, -1) {
		lo, ok1 := amountAt(m, 1, false)
		hi, ok2 := amountAt(m, 6, false)
		if !ok1 || !ok2 {
			continue
		}
		loExplicit, hiExplicit := isExplicitMoney(m, 1), isExplicitMoney(m, 6)

		// "2 to 5k" means 2000 to 5000
		if m[3] == "" && m[8] != "" && lo < 1000 {
			lo *= 1000
			loExplicit = true
		}
		if (!loExplicit && lo < minBareAmount) || (!hiExplicit && hi < minBareAmount) {
			continue
		}
		// a dash between two bare numbers is more often a phone number or date
		if sep := m[5]; (sep == "-" || sep == "–") && !loExplicit && !hiExplicit {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return &entities.PriceRange{Min: lo, Max: hi}, true
	}
	return nil, false
}

func capStrategy(re *regexp.Regexp) func(string) (*entities.PriceRange, bool) {
	return func(text string) (*entities.PriceRange, bool) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v, ok := amountAt(m, 1, true); ok {
				return &entities.PriceRange{Min: 0, Max: v}, true
			}
		}
		return nil, false
	}
}

func matchAround(text string) (*entities.PriceRange, bool) {
	for _, m := range aroundRe.FindAllStringSubmatch(text, -1) {
		if v, ok := amountAt(m, 1, true); ok {
			return &entities.PriceRange{Min: v * 8 / 10, Max: v * 12 / 10}, true
		}
	}
	return nil, false
}
