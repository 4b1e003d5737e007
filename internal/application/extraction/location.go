package extraction

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
)

var usStateCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true, "DE": true,
	"DC": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true, "IA": true,
	"KS": true, "KY": true, "LA": true, "ME": true, "MD": true, "MA": true, "MI": true, "MN": true,
	"MS": true, "MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true, "NM": true,
	"NY": true, "NC": true, "ND": true, "OH": true, "OK": true, "OR": true, "PA": true, "RI": true,
	"SC": true, "SD": true, "TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true,
	"WV": true, "WI": true, "WY": true,
}

// knownCities backs the whitelist strategy; keys are lowercase
var knownCities = map[string]entities.Location{
	"austin":        {City: "Austin", State: "TX"},
	"dallas":        {City: "Dallas", State: "TX"},
	"houston":       {City: "Houston", State: "TX"},
	"san antonio":   {City: "San Antonio", State: "TX"},
	"los angeles":   {City: "Los Angeles", State: "CA"},
	"san francisco": {City: "San Francisco", State: "CA"},
	"san jose":      {City: "San Jose", State: "CA"},
	"sacramento":    {City: "Sacramento", State: "CA"},
	"palo alto":     {City: "Palo Alto", State: "CA"},
}

// zipPrefixes maps the first three digits of a ZIP code to a state, sorted by Low
var zipPrefixes = []struct {
	Low, High int
	State     string
}{
	{10, 27, "MA"}, {28, 29, "RI"}, {30, 38, "NH"}, {39, 49, "ME"}, {50, 59, "VT"},
	{60, 69, "CT"}, {70, 89, "NJ"}, {100, 149, "NY"}, {150, 196, "PA"}, {197, 199, "DE"},
	{200, 205, "DC"}, {206, 219, "MD"}, {220, 246, "VA"}, {247, 268, "WV"}, {270, 289, "NC"},
	{290, 299, "SC"}, {300, 319, "GA"}, {320, 349, "FL"}, {350, 369, "AL"}, {370, 385, "TN"},
	{386, 397, "MS"}, {398, 399, "GA"}, {400, 427, "KY"}, {430, 459, "OH"}, {460, 479, "IN"},
	{480, 499, "MI"}, {500, 528, "IA"}, {530, 549, "WI"}, {550, 567, "MN"}, {570, 577, "SD"},
	{580, 588, "ND"}, {590, 599, "MT"}, {600, 629, "IL"}, {630, 658, "MO"}, {660, 679, "KS"},
	{680, 693, "NE"}, {700, 714, "LA"}, {716, 729, "AR"}, {730, 749, "OK"}, {750, 799, "TX"},
	{800, 816, "CO"}, {820, 831, "WY"}, {832, 838, "ID"}, {840, 847, "UT"}, {850, 865, "AZ"},
	{870, 884, "NM"}, {885, 885, "TX"}, {889, 898, "NV"}, {900, 961, "CA"}, {967, 968, "HI"},
	{970, 979, "OR"}, {980, 994, "WA"}, {995, 999, "AK"},
}

const cityPattern = `([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*)`

var (
	nearCityStateRe = regexp.MustCompile(`\b(?i:in|near|around|at)\s+` + cityPattern + `,?\s*([A-Z]{2})\b`)
	cityStateRe     = regexp.MustCompile(cityPattern + `,\s*([A-Z]{2})\b`)
	knownCityRe     = buildKnownCityRegexp()
	zipAfterWordRe  = regexp.MustCompile(`(?i)\b(?:in|near|around|zip(?:\s*code)?:?)\s+(\d{5})(?:-\d{4})?\b`)
	zipAfterStateRe = regexp.MustCompile(`\b([A-Z]{2})\s+(\d{5})(?:-\d{4})?\b`)
	titleBeforeRe   = regexp.MustCompile(`(?i)\b(?:dr|doctor|prof|professor|mr|mrs|ms|mx)\.?\s*$`)
)

var titleWords = map[string]bool{
	"dr": true, "doctor": true, "prof": true, "professor": true, "mr": true, "mrs": true, "ms": true, "mx": true,
}

// credentialCodes are state codes that also follow a clinician's name (MD, PA, MA)
var credentialCodes = map[string]bool{"MD": true, "PA": true, "MA": true}

func buildKnownCityRegexp() *regexp.Regexp {
	names := make([]string, 0, len(knownCities))
	for name := range knownCities {
		names = append(names, regexp.QuoteMeta(name))
	}
	// longest first so "san antonio" is never shadowed by a shorter name
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)\b`)
}

// LocationStrategies is the ordered fallback chain used by ParseLocation
var LocationStrategies = []Strategy[*entities.Location]{
	{Name: "near_city_state", Apply: func(text string) (*entities.Location, bool) {
		return firstCityState(nearCityStateRe, text, false)
	}},
	{Name: "city_state", Apply: func(text string) (*entities.Location, bool) {
		return firstCityState(cityStateRe, text, true)
	}},
	{Name: "known_city", Apply: matchKnownCity},
	{Name: "zip_code", Apply: matchZip},
}

// ParseLocation returns the first location the strategies find, or nil
func ParseLocation(text string) *entities.Location {
	loc, _, ok := FirstMatch(LocationStrategies, text)
	if !ok {
		return nil
	}
	return loc
}

// ResolveLocation parses text and falls back to the default-location collaborator
// when nothing is found. The collaborator error is returned alongside a nil
// location so the caller can log it. fallback may be nil.
func ResolveLocation(ctx context.Context, text string, fallback providers.DefaultLocationProvider) (*entities.Location, error) {
	if loc := ParseLocation(text); loc != nil {
		return loc, nil
	}
	if fallback == nil {
		return nil, nil
	}
	loc, err := fallback.DefaultLocation(ctx)
	if err != nil {
		return nil, err
	}
	if loc.IsZero() {
		return nil, nil
	}
	return loc, nil
}

// firstCityState skips titled names such as "Dr. Smith, MD". With
// credentialsAmbiguous set, an unknown name before MD, PA or MA is read as a
// credential rather than a state.
func firstCityState(re *regexp.Regexp, text string, credentialsAmbiguous bool) (*entities.Location, bool) {
	for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
		city := strings.TrimSpace(text[idx[2]:idx[3]])
		state := text[idx[4]:idx[5]]
		if !usStateCodes[state] || isTitledName(text[:idx[2]], city) {
			continue
		}
		if credentialsAmbiguous && credentialCodes[state] {
			if _, known := knownCities[strings.ToLower(city)]; !known {
				continue
			}
		}
		return &entities.Location{City: city, State: state}, true
	}
	return nil, false
}

func isTitledName(before, name string) bool {
	if titleBeforeRe.MatchString(before) {
		return true
	}
	first, _, _ := strings.Cut(name, " ")
	return titleWords[strings.ToLower(first)]
}

func matchKnownCity(text string) (*entities.Location, bool) {
	m := knownCityRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	loc := knownCities[strings.ToLower(m[1])]
	return &loc, true
}

func matchZip(text string) (*entities.Location, bool) {
	if m := zipAfterStateRe.FindStringSubmatch(text); m != nil && usStateCodes[m[1]] {
		return &entities.Location{State: m[1], Zip: m[2]}, true
	}
	if m := zipAfterWordRe.FindStringSubmatch(text); m != nil {
		return &entities.Location{State: StateForZip(m[1]), Zip: m[1]}, true
	}
	return nil, false
}

// StateForZip returns the two-letter state for a five digit ZIP, or "" if unknown
func StateForZip(zip string) string {
	if len(zip) < 3 {
		return ""
	}
	prefix, err := strconv.Atoi(zip[:3])
	if err != nil {
		return ""
	}
	i := sort.Search(len(zipPrefixes), func(i int) bool { return zipPrefixes[i].High >= prefix })
	if i < len(zipPrefixes) && zipPrefixes[i].Low <= prefix {
		return zipPrefixes[i].State
	}
	return ""
}
