package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex-crm/models"
	"vertex-crm/monitoring"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]error) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var reported []error
	client := NewClient(Config{
		BaseURL: server.URL + "/",
		Reporter: func(err error, _ map[string]interface{}) {
			reported = append(reported, err)
		},
	})
	return client, &reported
}

func TestFetchAll(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/clients", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"_id":"1","name":"Acme","status":"Lead"},{"_id":"2","name":"Beta"}]`)
	})

	clients, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "1", clients[0].ID)
	assert.Equal(t, models.StatusLead, clients[0].Status)
}

func TestFetchAllNullBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	})

	clients, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestCreateSendsNoIdentifier(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "_id")
		assert.Equal(t, "X", body["name"])
		assert.Equal(t, "x@x.com", body["email"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"_id":"srv-42","name":"X","email":"x@x.com","status":"Lead"}`)
	})

	created, err := client.Create(context.Background(), models.ClientFields{Name: "X", Email: "x@x.com", Status: models.StatusLead})
	require.NoError(t, err)
	assert.Equal(t, "srv-42", created.ID)
}

func TestCreateWithoutIdentifierInResponseFails(t *testing.T) {
	client, reported := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"name":"X"}`)
	})

	_, err := client.Create(context.Background(), models.ClientFields{Name: "X"})
	assert.Error(t, err)
	assert.Len(t, *reported, 1)
}

func TestUpdate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/clients/abc", r.URL.Path)

		var body models.Client
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abc", body.ID)
		body.Notes = "saved"
		json.NewEncoder(w).Encode(body)
	})

	updated, err := client.Update(context.Background(), "abc", models.Client{ClientFields: models.ClientFields{Name: "New"}})
	require.NoError(t, err)
	assert.Equal(t, "abc", updated.ID)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "saved", updated.Notes)
}

func TestDelete(t *testing.T) {
	var called bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/clients/abc", r.URL.Path)
		io.WriteString(w, `{"message":"Client deleted"}`)
	})

	require.NoError(t, client.Delete(context.Background(), "abc"))
	assert.True(t, called)
}

func TestNonSuccessStatusIsError(t *testing.T) {
	client, reported := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.Delete(context.Background(), "abc")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
	assert.Len(t, *reported, 1)
}

func TestMalformedJSONIsError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":`)
	})

	_, err := client.FetchAll(context.Background())
	assert.ErrorContains(t, err, "failed to decode response")
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.FetchAll(context.Background())
	assert.ErrorContains(t, err, "request failed")
}

func TestRequestsAreCounted(t *testing.T) {
	var fail atomic.Bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `[]`)
	})
	succeeded := monitoring.GatewayRequests.WithLabelValues("fetch", "success")
	failed := monitoring.GatewayRequests.WithLabelValues("fetch", "error")
	successBefore := testutil.ToFloat64(succeeded)
	errorBefore := testutil.ToFloat64(failed)

	_, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	fail.Store(true)
	_, err = client.FetchAll(context.Background())
	require.Error(t, err)

	assert.Equal(t, successBefore+1, testutil.ToFloat64(succeeded))
	assert.Equal(t, errorBefore+1, testutil.ToFloat64(failed))
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient(Config{}).BaseURL())
}
