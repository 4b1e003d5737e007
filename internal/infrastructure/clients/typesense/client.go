package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/doction/backend/pkg/config"
	"github.com/zatekoja/doction/backend/pkg/retry"
)

// DefaultProvidersCollection is used when no collection name is configured
const DefaultProvidersCollection = "providers"

// Client represents a Typesense client bound to the providers collection
type Client struct {
	client     *typesense.Client
	collection string
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	c := New(cfg)

	err := retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := c.client.Health(hctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("collection", c.collection).Msg("connected to Typesense")
	return c, nil
}

// New builds a client without checking connectivity
func New(cfg *config.TypesenseConfig) *Client {
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultProvidersCollection
	}
	return &Client{
		client: typesense.NewClient(
			typesense.WithServer(cfg.URL),
			typesense.WithAPIKey(cfg.APIKey),
			typesense.WithConnectionTimeout(5*time.Second),
		),
		collection: collection,
	}
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// Collection returns the providers collection name
func (c *Client) Collection() string {
	return c.collection
}

// InitSchema ensures the providers collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := c.client.Collection(c.collection).Retrieve(ctx); err == nil {
		log.Info().Str("collection", c.collection).Msg("typesense collection already exists")
		return nil
	}

	schema := &api.CollectionSchema{
		Name: c.collection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "specialty", Type: "string", Facet: pointer.True()},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "state", Type: "string", Facet: pointer.True()},
			{Name: "base_price_usd", Type: "int32"},
			{Name: "years_experience", Type: "int32"},
			{Name: "rating", Type: "float"},
			{Name: "accepts_insurance", Type: "bool"},
			{Name: "available", Type: "bool"},
			{Name: "response_time", Type: "string", Optional: pointer.True()},
			{Name: "bio", Type: "string", Optional: pointer.True()},
			{Name: "email", Type: "string", Optional: pointer.True()},
			{Name: "phone", Type: "string", Optional: pointer.True()},
		},
		DefaultSortingField: pointer.String("rating"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", c.collection).Msg("created typesense collection")
	return nil
}

// Upsert indexes one document in the providers collection
func (c *Client) Upsert(ctx context.Context, document map[string]interface{}) error {
	_, err := c.client.Collection(c.collection).Documents().Upsert(ctx, document)
	return err
}

// Search runs a search against the providers collection
func (c *Client) Search(ctx context.Context, params *api.SearchCollectionParams) (*api.SearchResult, error) {
	return c.client.Collection(c.collection).Documents().Search(ctx, params)
}
