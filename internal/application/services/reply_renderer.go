package services

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

const (
	// EmergencyReply is returned verbatim whenever a red flag is detected
	EmergencyReply = "This sounds like it could be a medical emergency. Please call 911 or your local emergency number, or go to the nearest emergency room right now. Do not wait for an online response."

	// OffDomainReply redirects messages that are not about medical or dental care
	OffDomainReply = "I can only help with medical and dental care, such as finding a provider or reviewing a treatment quote. Tell me what procedure you need and where you are, or paste a quote you received."

	// MedicalDisclaimer prefixes every informational answer
	MedicalDisclaimer = "This information is educational and is not a substitute for advice from a licensed provider."
)

var generalReplies = map[entities.Intent]string{
	entities.IntentInformation: "I'd be happy to help you learn more about dental and orthodontic procedures. What specific information are you looking for? I can provide details about treatments and recovery times, and help you find qualified specialists.",
	entities.IntentPricing:     "Dental procedure costs vary with your location, the complexity of treatment and the provider's experience. I can help you find providers in your budget range and those who offer payment plans or accept insurance. What type of procedure are you considering?",
	entities.IntentScheduling:  "I can help you connect with providers who have availability for consultations. Most of our specialists offer flexible scheduling. What type of appointment are you looking to schedule?",
	entities.IntentGeneral:     "Hello! I'm here to help you find qualified dental and orthodontic specialists. Tell me what you're looking for, like 'I need an orthodontist in Austin' or 'Looking for affordable wisdom tooth removal', and I'll match you with the right providers. How can I help you today?",
}

// ReplyRenderer turns pipeline outcomes into user-facing text
type ReplyRenderer struct {
	printer   *message.Printer
	maxListed int
}

func NewReplyRenderer(maxListed int) *ReplyRenderer {
	if maxListed <= 0 {
		maxListed = 3
	}
	return &ReplyRenderer{
		printer:   message.NewPrinter(language.AmericanEnglish),
		maxListed: maxListed,
	}
}

// Money formats a USD amount with thousands separators, e.g. $12,500
func (r *ReplyRenderer) Money(v float64) string {
	return r.printer.Sprintf("$%d", int64(math.Round(v)))
}

func (r *ReplyRenderer) Emergency() string { return EmergencyReply }

func (r *ReplyRenderer) OffDomain() string { return OffDomainReply }

// ProviderMatch lists the top providers and closes with an urgency-dependent call to action
func (r *ReplyRenderer) ProviderMatch(specialty *entities.Specialty, matches []entities.RankedProvider, loc *entities.Location, priceRange *entities.PriceRange, urgency entities.Urgency) string {
	count := len(matches)
	var b strings.Builder

	plural := ""
	if count > 1 {
		plural = "s"
	}
	fmt.Fprintf(&b, "Great! I found %d qualified %sspecialist%s%s%s.\n\n",
		count, specialtyPrefix(specialty), plural, locationSuffix(loc), r.budgetSuffix(priceRange))

	for i, rp := range matches {
		if i >= r.maxListed {
			break
		}
		p := rp.Provider
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, p.Name)
		fmt.Fprintf(&b, "• %s in %s, %s\n", p.Specialty, p.City, p.State)
		fmt.Fprintf(&b, "• Starting at %s\n", r.Money(float64(p.BasePriceUSD)))
		fmt.Fprintf(&b, "• %d years experience\n", p.YearsExperience)
		fmt.Fprintf(&b, "• Rating: %.1f/5.0\n", p.Rating)
		if p.ResponseTime != "" {
			fmt.Fprintf(&b, "• Response time: %s\n", p.ResponseTime)
		}
		if p.AcceptsInsurance {
			b.WriteString("• Accepts insurance\n")
		}
		b.WriteString("\n")
	}

	if count > r.maxListed {
		fmt.Fprintf(&b, "*And %d more specialists available...*\n\n", count-r.maxListed)
	}

	b.WriteString("I can connect you directly with any of these providers for a consultation. They'll receive your request and respond within their typical timeframes.\n\n")
	if urgency == entities.UrgencyHigh {
		b.WriteString("Since this is urgent, I recommend contacting multiple providers to ensure quick availability.")
	} else {
		b.WriteString("Would you like me to send your consultation request to any of these providers?")
	}
	return b.String()
}

// NoMatch explains that nothing matched and offers the ways forward
func (r *ReplyRenderer) NoMatch(specialty *entities.Specialty, loc *entities.Location, priceRange *entities.PriceRange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I understand you're looking for %sspecialists%s. ", specialtyPrefix(specialty), locationSuffix(loc))

	switch {
	case priceRange != nil:
		fmt.Fprintf(&b, "Unfortunately, I don't have any providers in your price range of %s at the moment. ", r.rangeText(*priceRange))
	case !loc.IsZero():
		b.WriteString("I don't have any matching specialists in that specific area right now. ")
	}

	b.WriteString("\n\nHere are some options:\n\n")
	b.WriteString("1. **Expand your search area** - I can show you specialists in nearby cities\n")
	b.WriteString("2. **Adjust your budget** - Many providers offer payment plans\n")
	b.WriteString("3. **Start a reverse auction** - Share your quote and let providers compete to beat it\n\n")
	b.WriteString("Would you like me to help with any of these options?")
	return b.String()
}

// Informational prefixes an answer with the disclaimer and appends numbered sources
func (r *ReplyRenderer) Informational(answer string, citations []entities.Citation) string {
	var b strings.Builder
	b.WriteString(MedicalDisclaimer)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(answer))

	if len(citations) > 0 {
		b.WriteString("\n\nSources:\n")
		for i, c := range citations {
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, c.Title, c.URL)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// GeneralFallback is the canned answer used when no LLM answer is available
func (r *ReplyRenderer) GeneralFallback(intent entities.Intent) string {
	if reply, ok := generalReplies[intent]; ok {
		return reply
	}
	return generalReplies[entities.IntentGeneral]
}

// AuctionCTA is appended to any reply that produced an auction draft
func (r *ReplyRenderer) AuctionCTA(draft *entities.AuctionDraft) string {
	if draft.BaselineAmount != nil && draft.Currency == "USD" {
		return fmt.Sprintf("Want providers to compete for your business? I can start a reverse auction inviting specialists to beat your quote of %s within %d hours.",
			r.Money(*draft.BaselineAmount), draft.DeadlineHours)
	}
	if draft.BaselineAmount != nil {
		return fmt.Sprintf("Want providers to compete for your business? I can start a reverse auction inviting specialists to beat your quote of %s %s within %d hours.",
			r.printer.Sprintf("%d", int64(math.Round(*draft.BaselineAmount))), draft.Currency, draft.DeadlineHours)
	}
	return fmt.Sprintf("Want providers to compete for your business? I can start a reverse auction inviting specialists to send their best price within %d hours.", draft.DeadlineHours)
}

// SuggestedActions returns the three follow-ups shown under a reply
func (r *ReplyRenderer) SuggestedActions(branch entities.ChatBranch, specialty *entities.Specialty) []string {
	switch branch {
	case entities.ChatBranchEmergency:
		return []string{"Call 911 or your local emergency number", "Go to the nearest emergency room", "Contact your doctor once you are safe"}
	case entities.ChatBranchOffDomain:
		return []string{"Tell me what procedure you need", "Share your city and state", "Paste a quote you received"}
	case entities.ChatBranchProviderMatch:
		return []string{"Send consultation request to selected providers", "Compare provider profiles and pricing", "Schedule a consultation call"}
	}
	if specialty != nil {
		return []string{"Expand search to nearby areas", "Adjust budget or requirements", "Start a reverse auction for this procedure"}
	}
	return []string{"Tell me what type of dental care you need", "Specify your location for local providers", "Upload existing quotes for comparison"}
}

func (r *ReplyRenderer) budgetSuffix(priceRange *entities.PriceRange) string {
	if priceRange == nil {
		return ""
	}
	return " within your budget of " + r.rangeText(*priceRange)
}

func (r *ReplyRenderer) rangeText(pr entities.PriceRange) string {
	if pr.Min <= 0 {
		return "up to " + r.Money(pr.Max)
	}
	return r.Money(pr.Min) + "-" + r.Money(pr.Max)
}

func specialtyPrefix(specialty *entities.Specialty) string {
	if specialty == nil || *specialty == "" {
		return ""
	}
	return string(*specialty) + " "
}

func locationSuffix(loc *entities.Location) string {
	if loc.IsZero() {
		return ""
	}
	var parts []string
	if loc.City != "" {
		parts = append(parts, loc.City)
	}
	if loc.State != "" {
		parts = append(parts, loc.State)
	} else if loc.Zip != "" {
		parts = append(parts, loc.Zip)
	}
	if len(parts) == 0 {
		return ""
	}
	return " in " + strings.Join(parts, ", ")
}
