package directory

import "github.com/zatekoja/doction/backend/internal/domain/entities"

// SeedProviders returns the reference directory used by the in-memory backend and the indexer
func SeedProviders() []entities.Provider {
	return []entities.Provider{
		{
			ID: "ortho-1", Name: "Dr. Sarah Smith", Specialty: string(entities.SpecialtyOrthodontics),
			City: "Austin", State: "TX", BasePriceUSD: 4800, YearsExperience: 12, Rating: 4.9,
			AcceptsInsurance: true, ResponseTime: "< 2 hours", Available: true,
			Email: "dr.smith@austinortho.com", Phone: "+1 (512) 555-0101",
			Bio: "Specializing in Invisalign and traditional braces. Board-certified orthodontist with over 12 years of experience.",
		},
		{
			ID: "ortho-2", Name: "Dr. Michael Johnson", Specialty: string(entities.SpecialtyOrthodontics),
			City: "Austin", State: "TX", BasePriceUSD: 4200, YearsExperience: 8, Rating: 4.7,
			AcceptsInsurance: true, ResponseTime: "< 4 hours", Available: true,
			Email: "dr.johnson@texasortho.com", Phone: "+1 (512) 555-0102",
			Bio: "Modern orthodontics with digital planning. Adult orthodontics and accelerated treatment options.",
		},
		{
			ID: "ortho-3", Name: "Dr. Jennifer Davis", Specialty: string(entities.SpecialtyOrthodontics),
			City: "San Jose", State: "CA", BasePriceUSD: 5800, YearsExperience: 15, Rating: 4.8,
			AcceptsInsurance: false, ResponseTime: "< 1 hour", Available: true,
			Email: "dr.davis@bayareaortho.com", Phone: "+1 (408) 555-0201",
			Bio: "Clear aligner technology and 3D digital treatment planning.",
		},
		{
			ID: "oral-1", Name: "Dr. Robert Wilson", Specialty: string(entities.SpecialtyOralSurgery),
			City: "Austin", State: "TX", BasePriceUSD: 9800, YearsExperience: 18, Rating: 4.9,
			AcceptsInsurance: true, ResponseTime: "< 3 hours", Available: true,
			Email: "dr.wilson@centraltexasoral.com", Phone: "+1 (512) 555-0301",
			Bio: "Board-certified oral and maxillofacial surgeon. Wisdom teeth removal, dental implants and corrective jaw surgery.",
		},
		{
			ID: "oral-2", Name: "Dr. Maria Garcia", Specialty: string(entities.SpecialtyOralSurgery),
			City: "Los Angeles", State: "CA", BasePriceUSD: 12500, YearsExperience: 22, Rating: 4.8,
			AcceptsInsurance: true, ResponseTime: "< 2 hours", Available: true,
			Email: "dr.garcia@laoralsurgery.com", Phone: "+1 (323) 555-0401",
			Bio: "Complex reconstructive procedures and TMJ disorders. Fluent in Spanish.",
		},
		{
			ID: "jaw-1", Name: "Dr. David Chen", Specialty: string(entities.SpecialtyJawSurgery),
			City: "Los Angeles", State: "CA", BasePriceUSD: 18500, YearsExperience: 25, Rating: 5.0,
			AcceptsInsurance: false, ResponseTime: "< 6 hours", Available: true,
			Email: "dr.chen@laprecisionjaw.com", Phone: "+1 (310) 555-0501",
			Bio: "Orthognathic surgeon using 3D surgical planning and computer-guided jaw reconstruction.",
		},
		{
			ID: "jaw-2", Name: "Dr. Lisa Thompson", Specialty: string(entities.SpecialtyJawSurgery),
			City: "San Francisco", State: "CA", BasePriceUSD: 16800, YearsExperience: 20, Rating: 4.9,
			AcceptsInsurance: true, ResponseTime: "< 4 hours", Available: true,
			Email: "dr.thompson@sfmaxfacial.com", Phone: "+1 (415) 555-0601",
			Bio: "Corrective jaw surgery and facial reconstruction. Fellowship trained in orthognathic and TMJ surgery.",
		},
		{
			ID: "general-1", Name: "Dr. Carlos Martinez", Specialty: string(entities.SpecialtyGeneralDentistry),
			City: "Austin", State: "TX", BasePriceUSD: 3200, YearsExperience: 10, Rating: 4.6,
			AcceptsInsurance: true, ResponseTime: "< 1 hour", Available: true,
			Email: "dr.martinez@moderndental.com", Phone: "+1 (512) 555-0701",
			Bio: "Preventive care and cosmetic procedures. Certified in conscious sedation.",
		},
		{
			ID: "general-2", Name: "Dr. Priya Patel", Specialty: string(entities.SpecialtyGeneralDentistry),
			City: "Palo Alto", State: "CA", BasePriceUSD: 4500, YearsExperience: 14, Rating: 4.7,
			AcceptsInsurance: false, ResponseTime: "< 2 hours", Available: true,
			Email: "dr.patel@siliconsmiles.com", Phone: "+1 (650) 555-0801",
			Bio: "Digital dentistry and same-day procedures. Fluent in Hindi and Gujarati.",
		},
	}
}
