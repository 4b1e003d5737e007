package entities

// Specialty is a dental/medical practice area the chat pipeline can route to
type Specialty string

const (
	SpecialtyOrthodontics     Specialty = "Orthodontics"
	SpecialtyOralSurgery      Specialty = "Oral Surgery"
	SpecialtyJawSurgery       Specialty = "Jaw Surgery"
	SpecialtyGeneralDentistry Specialty = "General Dentistry"
)

// Provider is a practitioner listed in the directory. The chat core only reads providers.
type Provider struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Specialty        string  `json:"specialty"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	BasePriceUSD     int     `json:"base_price_usd"`
	YearsExperience  int     `json:"years_experience"`
	Rating           float64 `json:"rating"`
	AcceptsInsurance bool    `json:"accepts_insurance"`
	ResponseTime     string  `json:"response_time"`
	Available        bool    `json:"available"`
	Bio              string  `json:"bio,omitempty"`
	Email            string  `json:"email,omitempty"`
	Phone            string  `json:"phone,omitempty"`
}

// RankedProvider is a provider with the score it received for one set of signals
type RankedProvider struct {
	Provider       Provider           `json:"provider"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
}

// Offer is a price a matched provider is expected to beat the patient's quote with
type Offer struct {
	ID           string  `json:"id"`
	ProviderID   string  `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	Specialty    string  `json:"specialty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PriceUSD     int     `json:"price_usd"`
	Rating       float64 `json:"rating"`
	ResponseTime string  `json:"response_time"`
	Notes        string  `json:"notes,omitempty"`
}

// OfferSet is the offers generated for one text together with the signals behind them
type OfferSet struct {
	Offers   []Offer      `json:"offers"`
	Metadata ChatMetadata `json:"metadata"`
}
