package entities

// Quote sources
const (
	QuoteSourceChat = "chat"
	QuoteSourceOCR  = "ocr"
)

// QuoteComponent is one line item of a pasted or scanned quote
type QuoteComponent struct {
	Label  string   `json:"label"`
	Amount *float64 `json:"amount,omitempty"`
}

// ParsedQuote is the structured form of a treatment quote found in a message
type ParsedQuote struct {
	Source     string           `json:"source"`
	Currency   string           `json:"currency"`
	Total      *float64         `json:"total,omitempty"`
	Components []QuoteComponent `json:"components,omitempty"`
	CPTCodes   []string         `json:"cpt_codes,omitempty"`
	ICD10Codes []string         `json:"icd10_codes,omitempty"`
	CDTCodes   []string         `json:"cdt_codes,omitempty"`
}
