package services

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// RankingSignals are the extracted signals the ranker scores against
type RankingSignals struct {
	Specialty  *entities.Specialty
	Location   *entities.Location
	PriceRange *entities.PriceRange
	Urgency    entities.Urgency
}

// RankingSignalsFrom picks the ranking inputs out of a full signal set
func RankingSignalsFrom(s *entities.ExtractedSignals) RankingSignals {
	if s == nil {
		return RankingSignals{}
	}
	return RankingSignals{
		Specialty:  s.Specialty,
		Location:   s.Location,
		PriceRange: s.PriceRange,
		Urgency:    s.Urgency,
	}
}

// response time tiers, checked fastest first
var (
	fastResponseRe    = regexp.MustCompile(`(?i)<\s*1\s*(?:h|hr|hour)\b|\b(?:under|within)\s+(?:1|one|an)\s+hour\b|\bminutes?\b`)
	sameDayResponseRe = regexp.MustCompile(`(?i)<\s*(?:[1-9]|1[0-2])\s*(?:h|hrs?|hours?)\b|\bsame[-\s]?day\b|\bwithin\s+(?:[1-9]|1[0-2])\s+hours?\b`)
	nextDayResponseRe = regexp.MustCompile(`(?i)\b1\s*-\s*2\s*days?\b|\b(?:1|2|one|two)\s+(?:business\s+)?days?\b|\b(?:24|48)\s*(?:h|hrs?|hours?)\b|\bnext[-\s]day\b`)
)

var scoreFactors = []string{"specialty", "city", "state", "price", "rating", "response_time"}

// ProviderRankingService scores providers against the signals of a chat turn
type ProviderRankingService struct {
	wSpecialty      float64
	wCity           float64
	wState          float64
	wPriceInRange   float64
	wPriceNearRange float64
	nearRangeFactor float64
	ratingFactor    float64
	ratingCap       float64
	wFastResponse   float64
	wSameDay        float64
	wNextDay        float64
}

// NewProviderRankingService creates a ranker with the default weights
func NewProviderRankingService() *ProviderRankingService {
	return &ProviderRankingService{
		wSpecialty:      40,
		wCity:           20,
		wState:          10,
		wPriceInRange:   20,
		wPriceNearRange: 8,
		nearRangeFactor: 1.2,
		ratingFactor:    2,
		ratingCap:       10,
		wFastResponse:   10,
		wSameDay:        7,
		wNextDay:        4,
	}
}

// Rank scores every provider and sorts by descending score. Equal scores keep
// their input order.
func (s *ProviderRankingService) Rank(candidates []entities.Provider, signals RankingSignals) []entities.RankedProvider {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]entities.RankedProvider, len(candidates))
	for i, p := range candidates {
		score, breakdown := s.Score(p, signals)
		ranked[i] = entities.RankedProvider{
			Provider:       p,
			Score:          score,
			ScoreBreakdown: breakdown,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// Score returns the additive score of one provider and the contribution of each factor
func (s *ProviderRankingService) Score(p entities.Provider, signals RankingSignals) (float64, map[string]float64) {
	breakdown := make(map[string]float64)

	if signals.Specialty != nil && *signals.Specialty != "" &&
		strings.Contains(strings.ToLower(p.Specialty), strings.ToLower(string(*signals.Specialty))) {
		breakdown["specialty"] = s.wSpecialty
	}

	if loc := signals.Location; loc != nil {
		if loc.City != "" && strings.EqualFold(p.City, loc.City) {
			breakdown["city"] = s.wCity
		}
		if loc.State != "" && strings.EqualFold(p.State, loc.State) {
			breakdown["state"] = s.wState
		}
	}

	if r := signals.PriceRange; r != nil {
		price := float64(p.BasePriceUSD)
		switch {
		case r.Contains(price):
			breakdown["price"] = s.wPriceInRange
		case price <= r.Max*s.nearRangeFactor:
			breakdown["price"] = s.wPriceNearRange
		}
	}

	if p.Rating > 0 {
		breakdown["rating"] = math.Min(p.Rating*s.ratingFactor, s.ratingCap)
	}

	if signals.Urgency == entities.UrgencyHigh {
		if bonus := s.responseBonus(p.ResponseTime); bonus > 0 {
			breakdown["response_time"] = bonus
		}
	}

	// fixed summation order keeps float totals identical across calls
	total := 0.0
	for _, factor := range scoreFactors {
		total += breakdown[factor]
	}
	return total, breakdown
}

func (s *ProviderRankingService) responseBonus(responseTime string) float64 {
	switch {
	case responseTime == "":
		return 0
	case fastResponseRe.MatchString(responseTime):
		return s.wFastResponse
	case sameDayResponseRe.MatchString(responseTime):
		return s.wSameDay
	case nextDayResponseRe.MatchString(responseTime):
		return s.wNextDay
	}
	return 0
}

// FilterByLocationAndPrice keeps ranked providers that satisfy every signal present,
// preserving rank order
func FilterByLocationAndPrice(ranked []entities.RankedProvider, loc *entities.Location, priceRange *entities.PriceRange) []entities.RankedProvider {
	var out []entities.RankedProvider
	for _, rp := range ranked {
		p := rp.Provider
		if loc != nil {
			if loc.City != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(loc.City)) {
				continue
			}
			if loc.State != "" && !strings.EqualFold(p.State, loc.State) {
				continue
			}
		}
		if priceRange != nil && !priceRange.Contains(float64(p.BasePriceUSD)) {
			continue
		}
		out = append(out, rp)
	}
	return out
}
