package entities

// Urgency is how quickly the patient wants to be seen
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Intent is what the patient is trying to do in a chat turn
type Intent string

const (
	IntentConsultation Intent = "consultation"
	IntentInformation  Intent = "information"
	IntentPricing      Intent = "pricing"
	IntentScheduling   Intent = "scheduling"
	IntentGeneral      Intent = "general"
)

// Location is a place mentioned in (or defaulted for) a message. Any field may be empty.
type Location struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Zip   string `json:"zip,omitempty"`
}

// IsZero reports whether no field is set
func (l *Location) IsZero() bool {
	return l == nil || (l.City == "" && l.State == "" && l.Zip == "")
}

// PriceRange is a USD budget. Min is always <= Max.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies inside the range, bounds included
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// ExtractedSignals is everything the extractors derived from one message
type ExtractedSignals struct {
	Specialty     *Specialty   `json:"specialty,omitempty"`
	Location      *Location    `json:"location,omitempty"`
	PriceRange    *PriceRange  `json:"price_range,omitempty"`
	Urgency       Urgency      `json:"urgency"`
	Intent        Intent       `json:"intent"`
	EmergencyFlag bool         `json:"emergency_flag"`
	DomainOK      bool         `json:"domain_ok"`
	SafetyFlags   []string     `json:"safety_flags,omitempty"`
	Quote         *ParsedQuote `json:"quote,omitempty"`
}
