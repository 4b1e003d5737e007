package entities

import "time"

// AuctionDraft is a broadcast-ready reverse auction request built from a chat turn
type AuctionDraft struct {
	BaselineAmount  *float64         `json:"baseline_amount,omitempty"`
	Currency        string           `json:"currency"`
	Components      []QuoteComponent `json:"components,omitempty"`
	CPTCodes        []string         `json:"cpt_codes,omitempty"`
	ICD10Codes      []string         `json:"icd10_codes,omitempty"`
	Location        *Location        `json:"location,omitempty"`
	Specialty       *Specialty       `json:"specialty,omitempty"`
	Urgency         Urgency          `json:"urgency"`
	DeadlineHours   int              `json:"deadline_hours"`
	OriginalMessage string           `json:"original_message"`
	CreatedAt       time.Time        `json:"created_at"`
}
