// Package gateway talks to the CRM REST API. It is the only code in the
// terminal client that performs network I/O.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"vertex-crm/models"
	"vertex-crm/monitoring"
)

const DefaultBaseURL = "https://vertex-crm-backend.onrender.com"

const clientsPath = "/api/clients"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrorReporter receives every failed operation, e.g. utils.CaptureError.
type ErrorReporter func(err error, context map[string]interface{})

type Config struct {
	BaseURL  string
	Logger   *log.Logger
	Reporter ErrorReporter
}

type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     *log.Logger
	reporter   ErrorReporter
}

// NewClient creates a client for the API at config.BaseURL. The underlying
// http.Client has no timeout and requests are never retried; the context
// passed to each call is the only bound.
func NewClient(config Config) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger,
		reporter:   config.Reporter,
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchAll returns every client record known to the server.
func (c *Client) FetchAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.do(ctx, "fetch", http.MethodGet, clientsPath, nil, &clients); err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

// Create posts a new record. The body carries no identifier; the returned
// record holds the one assigned by the server.
func (c *Client) Create(ctx context.Context, fields models.ClientFields) (models.Client, error) {
	var created models.Client
	if err := c.do(ctx, "create", http.MethodPost, clientsPath, fields, &created); err != nil {
		return models.Client{}, err
	}
	if created.ID == "" {
		err := fmt.Errorf("create client: response has no identifier")
		c.fail("create", http.MethodPost, clientsPath, err)
		return models.Client{}, err
	}
	return created, nil
}

// Update replaces the record with id and returns the server's copy.
func (c *Client) Update(ctx context.Context, id string, client models.Client) (models.Client, error) {
	client.ID = id
	var updated models.Client
	if err := c.do(ctx, "update", http.MethodPut, clientPath(id), client, &updated); err != nil {
		return models.Client{}, err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	return updated, nil
}

// Delete removes the record with id. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, clientPath(id), nil, nil)
}

func clientPath(id string) string {
	return clientsPath + "/" + url.PathEscape(id)
}

// do performs one request. body is JSON-encoded when non-nil and the
// response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out interface{}) error {
	err := c.roundTrip(ctx, method, path, body, out)
	if err != nil {
		c.fail(operation, method, path, err)
		return err
	}
	monitoring.GatewayRequests.WithLabelValues(operation, "success").Inc()
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) fail(operation, method, path string, err error) {
	monitoring.GatewayRequests.WithLabelValues(operation, "error").Inc()
	c.logger.Printf("Error during %s (%s %s): %v", operation, method, path, err)
	if c.reporter != nil {
		c.reporter(err, map[string]interface{}{
			"operation": operation,
			"method":    method,
			"path":      path,
		})
	}
}
