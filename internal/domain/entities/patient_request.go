package entities

import "time"

// PatientRequestStatus is the lifecycle state of a request sent to providers
type PatientRequestStatus string

const (
	PatientRequestStatusPending  PatientRequestStatus = "pending"
	PatientRequestStatusAccepted PatientRequestStatus = "accepted"
	PatientRequestStatusDeclined PatientRequestStatus = "declined"
	PatientRequestStatusExpired  PatientRequestStatus = "expired"
)

// Patient identifies who a request is made for
type Patient struct {
	ID    string `json:"id" db:"patient_id"`
	Name  string `json:"name" db:"patient_name"`
	Email string `json:"email,omitempty" db:"patient_email"`
	Phone string `json:"phone,omitempty" db:"patient_phone"`
}

// PatientRequest is a consultation request broadcast to matched providers
type PatientRequest struct {
	ID                string               `json:"id"`
	Patient           Patient              `json:"patient"`
	Specialty         string               `json:"specialty"`
	Urgency           Urgency              `json:"urgency"`
	Description       string               `json:"description"`
	Location          *Location            `json:"location,omitempty"`
	Budget            *PriceRange          `json:"budget,omitempty"`
	PreferredDate     *time.Time           `json:"preferred_date,omitempty"`
	Status            PatientRequestStatus `json:"status"`
	InsuranceDetected bool                 `json:"insurance_detected"`
	AdditionalNotes   string               `json:"additional_notes,omitempty"`
	ProviderIDs       []string             `json:"provider_ids,omitempty"`
	RespondedBy       string               `json:"responded_by,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// PatientRequestStats counts stored requests by status
type PatientRequestStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Expired  int `json:"expired"`
}

// Patient request event types
const (
	PatientRequestEventCreated   = "patient_request.created"
	PatientRequestEventResponded = "patient_request.responded"
	PatientRequestEventExpired   = "patient_request.expired"
)

// PatientRequestEvent is published when a request changes state
type PatientRequestEvent struct {
	Type       string               `json:"type"`
	RequestID  string               `json:"request_id"`
	Specialty  string               `json:"specialty"`
	ProviderID string               `json:"provider_id,omitempty"`
	Status     PatientRequestStatus `json:"status"`
	Timestamp  time.Time            `json:"timestamp"`
}
