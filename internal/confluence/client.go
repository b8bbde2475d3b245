// Package confluence is a typed wrapper over the Confluence REST API. One
// client is constructed per inbound request from the tenant's resolved
// credentials; it holds no state beyond the base URL and auth header.
package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vishkar/confluence-gateway/internal/auth"
	"github.com/vishkar/confluence-gateway/internal/registry"
)

const apiPrefix = "/rest/api"

// Client is an HTTP client for a single tenant's Confluence instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client from resolved tenant credentials. Basic auth
// lives in the client's transport, derived once here.
func NewClient(creds *registry.Credentials, timeout time.Duration) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("confluence: credentials required")
	}
	if creds.BaseURL == "" {
		return nil, fmt.Errorf("confluence: base URL required")
	}
	if creds.Username == "" || creds.APIToken == "" {
		return nil, fmt.Errorf("confluence: username and API token required")
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport, err := auth.NewBasic(nil, creds.Username, creds.APIToken)
	if err != nil {
		return nil, fmt.Errorf("confluence: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(creds.BaseURL, "/") + apiPrefix,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// RawBody allows callers to provide a pre-encoded body when constructing requests.
type RawBody struct {
	Reader      io.Reader
	ContentType string
}

// Do executes an HTTP request against the REST base path with authentication.
// headers are applied after the defaults, so callers can override them.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	contentType := "application/json"

	switch b := body.(type) {
	case nil:
		// no body
	case RawBody:
		bodyReader = b.Reader
		contentType = b.ContentType
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("confluence: encode body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("confluence: create request: %w", err)
	}

	if bodyReader != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.httpClient.Do(req)
}

// Get is a helper for GET requests decoding the response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.call(ctx, http.MethodGet, path, nil, nil, result)
}

// Post is a helper for POST requests.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPost, path, body, nil, result)
}

// Put is a helper for PUT requests.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPut, path, body, nil, result)
}

// Delete is a helper for DELETE requests.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body any, headers map[string]string, result any) error {
	res, err := c.Do(ctx, method, path, body, headers)
	if err != nil {
		return wrapTransportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseError(res)
	}

	if result == nil || res.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(result); err != nil {
		return fmt.Errorf("confluence: decode response: %w", err)
	}

	return nil
}
