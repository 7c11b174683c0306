package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"vertex-crm/models"
)

const ClientsIndex = "clients"

type ElasticsearchClient interface {
	IndexClient(ctx context.Context, client models.Client) error
	SearchClients(ctx context.Context, term string) ([]models.Client, error)
	DeleteClient(ctx context.Context, id string) error
	Close() error
}

type elasticsearchClient struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchClient() (ElasticsearchClient, error) {
	return NewElasticsearchClientWithConfig(elasticsearch.Config{
		Addresses: []string{os.Getenv("ELASTICSEARCH_URL")},
	}, ClientsIndex)
}

func NewElasticsearchClientWithConfig(cfg elasticsearch.Config, index string) (ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := es.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch ping error: %s", res.Status())
	}

	return &elasticsearchClient{client: es, index: index}, nil
}

func (e *elasticsearchClient) Close() error {
	// The client holds no connection that needs closing.
	return nil
}

func (e *elasticsearchClient) IndexClient(ctx context.Context, client models.Client) error {
	jsonDoc, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: client.ID,
		Body:       bytes.NewReader(jsonDoc),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string        `json:"_id"`
			Source models.Client `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchClients runs a prefix-friendly multi_match over the text fields.
func (e *elasticsearchClient) SearchClients(ctx context.Context, term string) ([]models.Client, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  term,
				"type":   "phrase_prefix",
				"fields": []string{"name", "company", "email", "phone", "status", "service", "budget", "notes"},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]models.Client, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		client := hit.Source
		if client.ID == "" {
			client.ID = hit.ID
		}
		results = append(results, client)
	}

	return results, nil
}

func (e *elasticsearchClient) DeleteClient(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: id,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	return nil
}
