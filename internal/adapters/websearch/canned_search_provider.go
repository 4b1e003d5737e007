package websearch

import (
	"context"
	"strings"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
)

type topic struct {
	keywords  []string
	citations []entities.Citation
}

var cannedTopics = []topic{
	{
		keywords: []string{"orthodont", "braces", "invisalign"},
		citations: []entities.Citation{
			{
				Title:   "Orthodontic Treatment Options - American Dental Association",
				URL:     "https://www.ada.org/en/member-center/oral-health-topics/orthodontic-treatment",
				Snippet: "Learn about different orthodontic treatments including traditional braces, Invisalign, and other teeth straightening options.",
			},
			{
				Title:   "What to Expect During Orthodontic Treatment - Mayo Clinic",
				URL:     "https://www.mayoclinic.org/tests-procedures/braces/about/pac-20384607",
				Snippet: "Guide to the orthodontic treatment process, timeline, costs, and what patients can expect.",
			},
			{
				Title:   "Adult Orthodontics: It's Never Too Late - WebMD",
				URL:     "https://www.webmd.com/oral-health/adult-orthodontics",
				Snippet: "Adult orthodontic treatment options including clear aligners and ceramic braces.",
			},
		},
	},
	{
		keywords: []string{"wisdom", "extraction", "oral surgery"},
		citations: []entities.Citation{
			{
				Title:   "Wisdom Teeth Removal - When Is It Necessary? - Mayo Clinic",
				URL:     "https://www.mayoclinic.org/tests-procedures/wisdom-tooth-extraction/about/pac-20395268",
				Snippet: "When wisdom teeth removal is necessary, the surgical procedure, recovery time, and potential complications.",
			},
			{
				Title:   "Tooth Extraction: What to Expect - Cleveland Clinic",
				URL:     "https://my.clevelandclinic.org/health/treatments/21157-tooth-extraction",
				Snippet: "Simple and surgical extractions, recovery tips, and aftercare instructions.",
			},
			{
				Title:   "Oral Surgery Recovery and Aftercare - Healthline",
				URL:     "https://www.healthline.com/health/dental-and-oral-health/tooth-extraction-aftercare",
				Snippet: "Pain management, eating guidelines, and warning signs of complications after oral surgery.",
			},
		},
	},
	{
		keywords: []string{"implant"},
		citations: []entities.Citation{
			{
				Title:   "Dental Implants - NIH National Institute of Dental Research",
				URL:     "https://www.nidcr.nih.gov/health-info/dental-implants",
				Snippet: "Candidacy requirements, the implant process, success rates, and long-term care.",
			},
			{
				Title:   "Dental Implant Surgery - Mayo Clinic",
				URL:     "https://www.mayoclinic.org/tests-procedures/dental-implant-surgery/about/pac-20384622",
				Snippet: "Preparation, procedure steps, recovery timeline, and potential risks of implant surgery.",
			},
		},
	},
	{
		keywords: []string{"jaw surgery", "tmj", "orthognathic"},
		citations: []entities.Citation{
			{
				Title:   "Jaw Surgery (Orthognathic Surgery) - American Association of Oral Surgeons",
				URL:     "https://www.aaoms.org/procedures/corrective-jaw-surgery",
				Snippet: "Corrective jaw surgery for bite problems, jaw misalignment, TMJ disorders, and sleep apnea.",
			},
			{
				Title:   "TMJ Disorders - Mayo Clinic",
				URL:     "https://www.mayoclinic.org/diseases-conditions/tmj/symptoms-causes/syc-20350941",
				Snippet: "Symptoms, causes, diagnosis, and treatment of temporomandibular joint disorders.",
			},
		},
	},
}

var generalCitations = []entities.Citation{
	{
		Title:   "Oral Health Topics - American Dental Association",
		URL:     "https://www.ada.org/en/member-center/oral-health-topics",
		Snippet: "Oral health information, dental procedures, and finding qualified dental professionals.",
	},
	{
		Title:   "Dental Health and Oral Care - CDC",
		URL:     "https://www.cdc.gov/oral-health/basics/index.html",
		Snippet: "Maintaining good oral health, preventing dental disease, and accessing dental care.",
	},
	{
		Title:   "Find a Dentist - Academy of General Dentistry",
		URL:     "https://www.agd.org/find-a-dentist",
		Snippet: "Directory of general dentists and dental specialists.",
	},
}

// CannedSearchProvider answers from a fixed table of reputable dental sources.
// It never fails and is used when no search API is configured.
type CannedSearchProvider struct{}

// NewCannedSearchProvider creates a canned search provider
func NewCannedSearchProvider() *CannedSearchProvider {
	return &CannedSearchProvider{}
}

var _ providers.WebSearchProvider = (*CannedSearchProvider)(nil)

func (p *CannedSearchProvider) Search(_ context.Context, query string, k int) ([]entities.Citation, error) {
	lower := strings.ToLower(query)

	results := make([]entities.Citation, 0)
	for _, t := range cannedTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				results = append(results, t.citations...)
				break
			}
		}
	}
	if len(results) == 0 {
		results = append(results, generalCitations...)
	}

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}
