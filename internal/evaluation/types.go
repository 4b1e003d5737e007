package evaluation

import (
	"time"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// Field names a signal the evaluator scores independently.
type Field string

const (
	FieldSpecialty Field = "specialty"
	FieldIntent    Field = "intent"
	FieldUrgency   Field = "urgency"
	FieldEmergency Field = "emergency"
	FieldDomain    Field = "domain_ok"
	FieldLocation  Field = "location"
	FieldPrice     Field = "price_range"
	FieldBranch    Field = "branch"
)

// Fields returns every scored field in report order.
func Fields() []Field {
	return []Field{FieldSpecialty, FieldIntent, FieldUrgency, FieldEmergency, FieldDomain, FieldLocation, FieldPrice, FieldBranch}
}

// Expectation is the labelled outcome of a golden chat. Nil pointers and empty
// strings are not scored.
type Expectation struct {
	Specialty   *string             `json:"specialty,omitempty"`
	Intent      entities.Intent     `json:"intent,omitempty"`
	Urgency     entities.Urgency    `json:"urgency,omitempty"`
	Emergency   *bool               `json:"emergency,omitempty"`
	DomainOK    *bool               `json:"domain_ok,omitempty"`
	City        string              `json:"city,omitempty"`
	State       string              `json:"state,omitempty"`
	PriceMin    *float64            `json:"price_min,omitempty"`
	PriceMax    *float64            `json:"price_max,omitempty"`
	Branch      entities.ChatBranch `json:"branch,omitempty"`
	ProviderIDs []string            `json:"provider_ids,omitempty"`
}

// GoldenChat is a labelled chat turn with its expected signals.
type GoldenChat struct {
	ID         string                 `json:"id"`
	Message    string                 `json:"message"`
	History    []entities.ChatMessage `json:"history,omitempty"`
	Expected   Expectation            `json:"expected"`
	Difficulty string                 `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the outcome of a single golden chat.
type EvalResult struct {
	ChatID    string
	Message   string
	Branch    entities.ChatBranch
	Checks    map[Field]bool
	RecallAt3 float64
	MRRAt3    float64
	Matched   []string
	Latency   time.Duration
}

// FieldSummary is the accuracy of one field over the chats that label it.
type FieldSummary struct {
	Scored   int     `json:"scored"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// EvalSummary holds aggregate metrics across all golden chats.
type EvalSummary struct {
	TotalChats   int                      `json:"total_chats"`
	ByField      map[Field]*FieldSummary  `json:"by_field"`
	ByDifficulty map[string]*FieldSummary `json:"by_difficulty"`
	AvgRecallAt3 float64                  `json:"avg_recall_at_3"`
	AvgMRRAt3    float64                  `json:"avg_mrr_at_3"`
	RankedChats  int                      `json:"ranked_chats"`
	AvgLatency   time.Duration            `json:"avg_latency"`
	Failures     []string                 `json:"failures,omitempty"`
}
