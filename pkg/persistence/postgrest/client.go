// Package postgrest implements the persistence layer over a PostgREST-style
// REST interface, the convention used by hosted backend-as-a-service stores.
// Filters are query parameters of the form column=eq.value and writes request
// the affected rows back with Prefer: return=representation.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is a minimal PostgREST HTTP client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given REST base URL (".../rest/v1").
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// RequestError reports a non-2xx response from the REST interface.
type RequestError struct {
	Method string
	Table  string
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Table, e.Status, e.Body)
}

// Select fetches rows matching the eq filters into dest.
func (c *Client) Select(ctx context.Context, table string, filters map[string]string, dest any) error {
	return c.do(ctx, http.MethodGet, table, filters, nil, dest)
}

// SelectRaw fetches rows using a preformatted PostgREST query string, for
// operators beyond eq (neq, gt, lt).
func (c *Client) SelectRaw(ctx context.Context, table, rawQuery string, dest any) error {
	return c.do(ctx, http.MethodGet, table+"?"+rawQuery, nil, nil, dest)
}

// Insert posts row and, when dest is not nil, decodes the representation back.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	return c.do(ctx, http.MethodPost, table, nil, row, dest)
}

// Patch applies a partial update to the rows matching the eq filters.
func (c *Client) Patch(ctx context.Context, table string, filters map[string]string, patch any, dest any) error {
	return c.do(ctx, http.MethodPatch, table, filters, patch, dest)
}

// Delete removes the rows matching the eq filters.
func (c *Client) Delete(ctx context.Context, table string, filters map[string]string) error {
	return c.do(ctx, http.MethodDelete, table, filters, nil, nil)
}

func (c *Client) do(ctx context.Context, method, table string, filters map[string]string, body any, dest any) error {
	endpoint, err := url.Parse(c.baseURL + "/" + table)
	if err != nil {
		return fmt.Errorf("invalid table URL: %w", err)
	}

	query := endpoint.Query()
	for column, value := range filters {
		query.Set(column, "eq."+value)
	}

	endpoint.RawQuery = query.Encode()

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if dest != nil {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", table, err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Method: method,
			Table:  table,
			Status: resp.StatusCode,
			Body:   string(raw),
		}
	}

	if dest != nil && len(raw) > 0 {
		err = json.Unmarshal(raw, dest)
		if err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", table, err)
		}
	}

	return nil
}
