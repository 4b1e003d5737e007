package entities

// DeliveryFailure records why one provider could not be notified
type DeliveryFailure struct {
	ProviderID string `json:"provider_id"`
	Error      string `json:"error"`
}

// DispatchResult is the per-recipient bookkeeping of one notification fan-out
type DispatchResult struct {
	Success           bool              `json:"success"`
	NotifiedProviders []string          `json:"notified_providers"`
	Errors            []DeliveryFailure `json:"errors"`
	RequestID         string            `json:"request_id"`
}
