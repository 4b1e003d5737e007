package services

import (
	"time"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// DefaultAuctionDeadlineHours applies to every draft regardless of urgency
const DefaultAuctionDeadlineHours = 72

// AuctionDraftBuilder converts a chat turn into a reverse auction payload
type AuctionDraftBuilder struct {
	deadlineHours int
	now           func() time.Time
}

func NewAuctionDraftBuilder(deadlineHours int) *AuctionDraftBuilder {
	if deadlineHours <= 0 {
		deadlineHours = DefaultAuctionDeadlineHours
	}
	return &AuctionDraftBuilder{deadlineHours: deadlineHours, now: time.Now}
}

// ShouldBuild reports whether a turn qualifies for an auction draft
func ShouldBuild(intent entities.Intent, quote *entities.ParsedQuote) bool {
	return intent == entities.IntentPricing || quote != nil
}

// Build emits a draft. quote may be nil, in which case there is no baseline.
func (b *AuctionDraftBuilder) Build(message string, signals *entities.ExtractedSignals, quote *entities.ParsedQuote) *entities.AuctionDraft {
	draft := &entities.AuctionDraft{
		Currency:        "USD",
		Location:        signals.Location,
		Specialty:       signals.Specialty,
		Urgency:         signals.Urgency,
		DeadlineHours:   b.deadlineHours,
		OriginalMessage: message,
		CreatedAt:       b.now().UTC(),
	}

	if quote != nil {
		draft.Currency = quote.Currency
		draft.BaselineAmount = quote.Total
		draft.Components = quote.Components
		draft.CPTCodes = quote.CPTCodes
		draft.ICD10Codes = quote.ICD10Codes
	}
	return draft
}
