package extraction

import "github.com/zatekoja/doction/backend/internal/domain/entities"

var urgencyTable = []KeywordSet[entities.Urgency]{
	{Label: entities.UrgencyHigh, Keywords: []string{"urgent", "emergency", "asap", "immediately", "right away", "today", "as soon as possible"}},
	{Label: entities.UrgencyMedium, Keywords: []string{"soon", "this week", "next week", "within a month"}},
}

// ClassifyUrgency checks high keywords before medium and defaults to low
func ClassifyUrgency(text string) entities.Urgency {
	if urgency, ok := firstLabel(urgencyTable, text); ok {
		return urgency
	}
	return entities.UrgencyLow
}
