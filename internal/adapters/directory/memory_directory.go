package directory

import (
	"context"
	"strings"
	"unicode"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

var _ repositories.ProviderDirectory = (*MemoryDirectory)(nil)

// MemoryDirectory serves a fixed provider list. Only available providers are returned.
type MemoryDirectory struct {
	providers []entities.Provider
}

// NewMemoryDirectory copies providers; nil means the seed directory
func NewMemoryDirectory(providers []entities.Provider) *MemoryDirectory {
	if providers == nil {
		providers = SeedProviders()
	}
	return &MemoryDirectory{providers: append([]entities.Provider(nil), providers...)}
}

func (d *MemoryDirectory) BySpecialty(ctx context.Context, name string) ([]entities.Provider, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	var out []entities.Provider
	for _, p := range d.providers {
		if p.Available && strings.Contains(strings.ToLower(p.Specialty), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Search matches any word of text against name, specialty, city, state and bio.
// Text with no matching word returns every available provider.
func (d *MemoryDirectory) Search(ctx context.Context, text string) ([]entities.Provider, error) {
	terms := searchTerms(text)

	var out, all []entities.Provider
	for _, p := range d.providers {
		if !p.Available {
			continue
		}
		all = append(all, p)
		haystack := strings.ToLower(strings.Join([]string{p.Name, p.Specialty, p.City, p.State, p.Bio}, " "))
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				out = append(out, p)
				break
			}
		}
	}
	if len(out) == 0 {
		return all, nil
	}
	return out, nil
}

func (d *MemoryDirectory) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	for _, p := range d.providers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("provider not found: " + id)
}

var stopWords = map[string]struct{}{
	"with": {}, "this": {}, "that": {}, "need": {}, "want": {}, "have": {}, "from": {},
	"someone": {}, "looking": {}, "total": {}, "code": {}, "quote": {}, "please": {},
}

// searchTerms keeps lowercase words of four or more letters that are not stop words
func searchTerms(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var terms []string
	for _, w := range words {
		if len(w) < 4 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}
