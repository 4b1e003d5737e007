package extraction

import "github.com/zatekoja/doction/backend/internal/domain/entities"

// intentTable order decides between intents when a message matches several
var intentTable = []KeywordSet[entities.Intent]{
	{Label: entities.IntentConsultation, Keywords: []string{"looking for", "need", "want", "find", "help me find", "consultation", "treatment"}},
	{Label: entities.IntentPricing, Keywords: []string{"cost", "price", "expensive", "affordable", "budget", "payment", "insurance"}},
	{Label: entities.IntentScheduling, Keywords: []string{"appointment", "schedule", "book", "available", "when can"}},
	{Label: entities.IntentInformation, Keywords: []string{"what is", "how does", "tell me about", "information", "explain"}},
}

// ClassifyIntent returns the first intent in table order with a keyword hit, or general
func ClassifyIntent(text string) entities.Intent {
	if intent, ok := firstLabel(intentTable, text); ok {
		return intent
	}
	return entities.IntentGeneral
}
