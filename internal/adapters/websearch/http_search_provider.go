package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

const defaultHTTPTimeout = 8 * time.Second

// MedicalDomains restricts searches to reputable health sources
var MedicalDomains = []string{
	"mayoclinic.org",
	"webmd.com",
	"healthline.com",
	"medicalnewstoday.com",
	"nih.gov",
	"cdc.gov",
	"ada.org",
	"aao.org",
	"aaoms.org",
	"clevelandclinic.org",
	"hopkinsmedicine.org",
}

// HTTPSearchProvider queries a JSON search endpoint restricted to MedicalDomains.
// When the endpoint fails and a fallback is set, the fallback answers instead.
type HTTPSearchProvider struct {
	url        string
	apiKey     string
	httpClient *http.Client
	fallback   providers.WebSearchProvider
}

// NewHTTPSearchProvider creates a search provider for endpoint
func NewHTTPSearchProvider(endpoint, apiKey string, httpClient *http.Client, fallback providers.WebSearchProvider) *HTTPSearchProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPSearchProvider{
		url:        endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
		fallback:   fallback,
	}
}

var _ providers.WebSearchProvider = (*HTTPSearchProvider)(nil)

type searchRequest struct {
	Query      string   `json:"query"`
	MaxResults int      `json:"maxResults"`
	Domains    []string `json:"domains"`
}

type searchResponse struct {
	Results []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Snippet     string `json:"snippet"`
		Description string `json:"description"`
	} `json:"results"`
}

func (p *HTTPSearchProvider) Search(ctx context.Context, query string, k int) ([]entities.Citation, error) {
	citations, err := p.search(ctx, query, k)
	if err == nil {
		return citations, nil
	}
	if p.fallback == nil {
		return nil, err
	}

	log.Ctx(ctx).Warn().Err(err).Msg("web search failed, using fallback citations")
	return p.fallback.Search(ctx, query, k)
}

func (p *HTTPSearchProvider) search(ctx context.Context, query string, k int) ([]entities.Citation, error) {
	body, err := json.Marshal(searchRequest{
		Query:      restrictToDomains(query),
		MaxResults: k,
		Domains:    MedicalDomains,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode search request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError("search request failed", fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode search response", err)
	}

	citations := make([]entities.Citation, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.URL == "" {
			continue
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = r.Description
		}
		citations = append(citations, entities.Citation{Title: r.Title, URL: r.URL, Snippet: snippet})
		if k > 0 && len(citations) == k {
			break
		}
	}
	return citations, nil
}

func restrictToDomains(query string) string {
	return strings.TrimSpace(query) + " site:" + strings.Join(MedicalDomains, " OR site:")
}
