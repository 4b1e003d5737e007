package extraction

import (
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

// DefaultSpecialtyTable is declared in tie-break order
var DefaultSpecialtyTable = []KeywordSet[entities.Specialty]{
	{
		Label:    entities.SpecialtyOrthodontics,
		Keywords: []string{"orthodontist", "orthodontics", "braces", "invisalign", "teeth straightening", "crooked teeth", "overbite", "underbite"},
	},
	{
		Label:    entities.SpecialtyOralSurgery,
		Keywords: []string{"oral surgeon", "oral surgery", "wisdom teeth", "tooth extraction", "dental implants", "jaw pain"},
	},
	{
		Label:    entities.SpecialtyJawSurgery,
		Keywords: []string{"jaw surgeon", "jaw surgery", "orthognathic", "jaw alignment", "tmj", "jaw reconstruction"},
	},
	{
		Label:    entities.SpecialtyGeneralDentistry,
		Keywords: []string{"dentist", "dental", "cavity", "cleaning", "checkup", "tooth pain", "root canal"},
	},
}

// ClassifySpecialty returns the specialty with the most keyword hits, or nil
func ClassifySpecialty(text string) *entities.Specialty {
	return ClassifySpecialtyWith(DefaultSpecialtyTable, text)
}

// ClassifySpecialtyWith classifies against a custom table. Ties go to the
// specialty declared first.
func ClassifySpecialtyWith(table []KeywordSet[entities.Specialty], text string) *entities.Specialty {
	lower := strings.ToLower(text)
	best, bestHits := -1, 0
	for i, row := range table {
		if hits := countHits(lower, row.Keywords); hits > bestHits {
			best, bestHits = i, hits
		}
	}
	if best < 0 {
		return nil
	}
	specialty := table[best].Label
	return &specialty
}
