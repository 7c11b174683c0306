package utils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex-crm/models"
)

// fakeElasticsearch answers just enough of the REST API for the client.
func fakeElasticsearch(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) ElasticsearchClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead && r.URL.Path == "/" {
			return
		}
		handle(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewElasticsearchClientWithConfig(elasticsearch.Config{Addresses: []string{server.URL}}, "clients")
	require.NoError(t, err)
	return client
}

func TestSearchClients(t *testing.T) {
	client := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clients/_search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.True(t, strings.Contains(string(body), `"acme"`))
		io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_id":"1","_source":{"name":"Acme Co","status":"Lead"}}]}}`)
	})

	results, err := client.SearchClients(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "Acme Co", results[0].Name)
}

func TestIndexClient(t *testing.T) {
	client := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/clients/_doc/abc", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	})

	err := client.IndexClient(context.Background(), models.Client{ID: "abc", ClientFields: models.ClientFields{Name: "Acme"}})
	assert.NoError(t, err)
}

func TestDeleteMissingDocumentIsNotAnError(t *testing.T) {
	client := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"result":"not_found"}`)
	})

	assert.NoError(t, client.DeleteClient(context.Background(), "gone"))
}
