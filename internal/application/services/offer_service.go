package services

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

const (
	maxOffers         = 4
	offerStepUSD      = 150
	offerFloorPercent = 0.8
)

// OfferService turns matched providers into indicative offers for pasted text
type OfferService struct {
	chat *ChatProcessingService
}

func NewOfferService(chat *ChatProcessingService) *OfferService {
	return &OfferService{chat: chat}
}

// FromText runs the chat pipeline over text and prices the top matches. Each
// rank step takes $150 off the base price, never going under 80% of it.
func (s *OfferService) FromText(ctx context.Context, text string, history []entities.ChatMessage) *entities.OfferSet {
	result := s.chat.Process(ctx, entities.ChatRequest{Message: text, History: history})

	matches := result.Metadata.MatchedProviders
	if len(matches) > maxOffers {
		matches = matches[:maxOffers]
	}

	offers := make([]entities.Offer, 0, len(matches))
	for i, rp := range matches {
		p := rp.Provider
		offer := entities.Offer{
			ID:           fmt.Sprintf("%s-%d", p.ID, i),
			ProviderID:   p.ID,
			ProviderName: p.Name,
			Specialty:    p.Specialty,
			City:         p.City,
			State:        p.State,
			PriceUSD:     OfferPrice(p.BasePriceUSD, i),
			Rating:       p.Rating,
			ResponseTime: p.ResponseTime,
		}
		if offer.ProviderName == "" {
			offer.ProviderName = "Provider"
		}
		if i == 0 {
			offer.Notes = "Includes initial consultation"
		}
		offers = append(offers, offer)
	}

	log.Ctx(ctx).Info().Int("count", len(offers)).Msg("offers generated from text")
	return &entities.OfferSet{Offers: offers, Metadata: result.Metadata}
}

// OfferPrice is max(base - rank*150, round(base*0.8))
func OfferPrice(base, rank int) int {
	floor := int(math.Round(float64(base) * offerFloorPercent))
	price := base - rank*offerStepUSD
	if price < floor {
		return floor
	}
	return price
}
