package notifications

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatRequestMessage renders the text a provider receives for a new patient request
func FormatRequestMessage(provider entities.Provider, request *entities.PatientRequest) string {
	var b strings.Builder

	name := provider.Name
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s, a patient is looking for %s", name, request.Specialty)
	if request.Location != nil && request.Location.City != "" {
		fmt.Fprintf(&b, " in %s", request.Location.City)
		if request.Location.State != "" {
			fmt.Fprintf(&b, ", %s", request.Location.State)
		}
	}
	b.WriteString(".\n")

	fmt.Fprintf(&b, "Urgency: %s\n", request.Urgency)
	if request.Budget != nil {
		b.WriteString(printer.Sprintf("Budget: $%d - $%d\n", int(request.Budget.Min), int(request.Budget.Max)))
	}
	if request.PreferredDate != nil {
		fmt.Fprintf(&b, "Preferred date: %s\n", request.PreferredDate.Format("Jan 2, 2006"))
	}
	if request.InsuranceDetected {
		b.WriteString("Patient mentioned insurance.\n")
	}
	if request.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", request.Description)
	}
	fmt.Fprintf(&b, "Request ID: %s", request.ID)

	return b.String()
}
