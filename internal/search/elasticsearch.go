package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"example.com/furnish/services/serial/config"
	"example.com/furnish/services/serial/internal/models"
)

// Indexer keeps a search projection of the unit registry. Indexing is a
// side effect of accepted mutations; the registry itself stays the source
// of truth.
type Indexer interface {
	IndexUnit(ctx context.Context, unit *models.SerialUnit) error
	DeleteUnit(ctx context.Context, id string) error
}

// esIndexer implements Indexer on Elasticsearch
type esIndexer struct {
	client  *elasticsearch.Client
	index   string
	enabled bool
}

// NewIndexer creates a new Elasticsearch indexer. A disabled indexer
// silently drops every call.
func NewIndexer(cfg *config.ElasticsearchConfig) (Indexer, error) {
	if !cfg.Enabled {
		return &esIndexer{enabled: false}, nil
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.URLs,
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	return &esIndexer{
		client:  client,
		index:   cfg.Index,
		enabled: true,
	}, nil
}

// IndexUnit indexes one unit document keyed by its internal id
func (e *esIndexer) IndexUnit(ctx context.Context, unit *models.SerialUnit) error {
	if !e.enabled {
		return nil
	}

	document, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("failed to marshal unit document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: unit.UUID,
		Body:       bytes.NewReader(document),
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index unit document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing unit document: %s", res.String())
	}
	return nil
}

// DeleteUnit removes a unit document
func (e *esIndexer) DeleteUnit(ctx context.Context, id string) error {
	if !e.enabled {
		return nil
	}

	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: id,
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to delete unit document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("error deleting unit document: %s", res.String())
	}
	return nil
}
