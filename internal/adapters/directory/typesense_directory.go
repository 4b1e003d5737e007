package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	tsclient "github.com/zatekoja/doction/backend/internal/infrastructure/clients/typesense"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

const (
	searchFields = "name,specialty,city,state,bio"
	maxHits      = 50
)

var _ repositories.ProviderDirectory = (*TypesenseDirectory)(nil)

// TypesenseDirectory implements provider lookup using Typesense
type TypesenseDirectory struct {
	client *tsclient.Client
}

func NewTypesenseDirectory(client *tsclient.Client) *TypesenseDirectory {
	return &TypesenseDirectory{client: client}
}

// Index upserts providers into the collection
func (d *TypesenseDirectory) Index(ctx context.Context, providers []entities.Provider) error {
	for _, p := range providers {
		if err := d.client.Upsert(ctx, ProviderDocument(p)); err != nil {
			return fmt.Errorf("failed to index provider %s: %w", p.ID, err)
		}
	}
	return nil
}

func (d *TypesenseDirectory) BySpecialty(ctx context.Context, name string) ([]entities.Provider, error) {
	return d.search(ctx, &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(fmt.Sprintf("available:=true && specialty:=`%s`", escapeFilter(name))),
		PerPage:  pointer.Int(maxHits),
	})
}

// Search does a typo-tolerant match over the text fields, dropping tokens that
// do not match anything
func (d *TypesenseDirectory) Search(ctx context.Context, text string) ([]entities.Provider, error) {
	q := strings.TrimSpace(text)
	if q == "" {
		q = "*"
	}
	return d.search(ctx, &api.SearchCollectionParams{
		Q:                   pointer.String(q),
		QueryBy:             pointer.String(searchFields),
		FilterBy:            pointer.String("available:=true"),
		DropTokensThreshold: pointer.Int(maxHits),
		PerPage:             pointer.Int(maxHits),
	})
}

func (d *TypesenseDirectory) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	providers, err := d.search(ctx, &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(fmt.Sprintf("id:=`%s`", escapeFilter(id))),
		PerPage:  pointer.Int(1),
	})
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, apperrors.NewNotFoundError("provider not found: " + id)
	}
	return &providers[0], nil
}

func (d *TypesenseDirectory) search(ctx context.Context, params *api.SearchCollectionParams) ([]entities.Provider, error) {
	result, err := d.client.Search(ctx, params)
	if err != nil {
		return nil, apperrors.NewExternalError("provider search failed", err)
	}
	if result.Hits == nil {
		return nil, nil
	}

	providers := make([]entities.Provider, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		providers = append(providers, ProviderFromDocument(*hit.Document))
	}
	return providers, nil
}

// ProviderDocument converts a provider to its Typesense document
func ProviderDocument(p entities.Provider) map[string]interface{} {
	return map[string]interface{}{
		"id":                p.ID,
		"name":              p.Name,
		"specialty":         p.Specialty,
		"city":              p.City,
		"state":             p.State,
		"base_price_usd":    p.BasePriceUSD,
		"years_experience":  p.YearsExperience,
		"rating":            p.Rating,
		"accepts_insurance": p.AcceptsInsurance,
		"available":         p.Available,
		"response_time":     p.ResponseTime,
		"bio":               p.Bio,
		"email":             p.Email,
		"phone":             p.Phone,
	}
}

// ProviderFromDocument reads a search hit back into a provider. Missing or
// mistyped fields are left zero.
func ProviderFromDocument(doc map[string]interface{}) entities.Provider {
	str := func(key string) string {
		v, _ := doc[key].(string)
		return v
	}
	num := func(key string) float64 {
		v, _ := doc[key].(float64)
		return v
	}
	flag := func(key string) bool {
		v, _ := doc[key].(bool)
		return v
	}

	return entities.Provider{
		ID:               str("id"),
		Name:             str("name"),
		Specialty:        str("specialty"),
		City:             str("city"),
		State:            str("state"),
		BasePriceUSD:     int(num("base_price_usd")),
		YearsExperience:  int(num("years_experience")),
		Rating:           num("rating"),
		AcceptsInsurance: flag("accepts_insurance"),
		Available:        flag("available"),
		ResponseTime:     str("response_time"),
		Bio:              str("bio"),
		Email:            str("email"),
		Phone:            str("phone"),
	}
}

func escapeFilter(v string) string {
	return strings.ReplaceAll(v, "`", "")
}
