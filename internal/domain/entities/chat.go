package entities

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one conversation turn
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Citation is a source returned by the web-search collaborator
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// ChatBranch is the pipeline branch that produced a reply
type ChatBranch string

const (
	ChatBranchEmergency     ChatBranch = "emergency"
	ChatBranchOffDomain     ChatBranch = "off_domain"
	ChatBranchProviderMatch ChatBranch = "provider_match"
	ChatBranchNoMatch       ChatBranch = "no_match"
	ChatBranchInformational ChatBranch = "informational"
)

// ChatRequest is a single incoming chat turn
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`

	// Source is QuoteSourceChat or QuoteSourceOCR for text extracted from an uploaded document
	Source string `json:"source,omitempty"`
}

// ChatMetadata bundles the signals and artifacts behind a reply
type ChatMetadata struct {
	Branch           ChatBranch       `json:"branch"`
	Specialty        *Specialty       `json:"specialty,omitempty"`
	Location         *Location        `json:"location,omitempty"`
	PriceRange       *PriceRange      `json:"price_range,omitempty"`
	Urgency          Urgency          `json:"urgency"`
	Intent           Intent           `json:"intent"`
	EmergencyFlag    bool             `json:"emergency_flag"`
	DomainOK         bool             `json:"domain_ok"`
	MatchedProviders []RankedProvider `json:"matched_providers,omitempty"`
	Citations        []Citation       `json:"citations,omitempty"`
	SafetyFlags      []string         `json:"safety_flags,omitempty"`
	Quote            *ParsedQuote     `json:"quote,omitempty"`
}

// ProcessedChatResult is the only thing a chat turn hands back to its caller
type ProcessedChatResult struct {
	Reply                       string        `json:"reply"`
	Metadata                    ChatMetadata  `json:"metadata"`
	ShouldCreateProviderMatches bool          `json:"should_create_provider_matches"`
	ShouldCreateAuctionRequest  bool          `json:"should_create_auction_request"`
	AuctionDraft                *AuctionDraft `json:"auction_draft,omitempty"`
	SuggestedActions            []string      `json:"suggested_actions,omitempty"`
}
