// Package airtable implements the typed client for the external record
// store. It exposes the three operations the rest of the service needs
// (Find, Create, Update) over the store's REST API, plus the formula
// builders in formula.go for constructing filter expressions.
//
// Design notes:
//   - The base URL and *http.Client are injectable so tests can point the
//     client at an httptest server.
//   - List calls follow the store's offset pagination until exhausted.
//   - Upstream error messages are surfaced verbatim inside *APIError so
//     handlers can forward them.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production endpoint of the record store API.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Record is one row of a record store table: the store-assigned ID plus the
// field map. Field names match the table's column names, including spaces
// (e.g. "Card Number").
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Flatten merges ID and fields into one map, the shape API responses use.
func (r Record) Flatten() map[string]any {
	out := make(map[string]any, len(r.Fields)+1)
	out["id"] = r.ID
	for k, v := range r.Fields {
		out[k] = v
	}
	return out
}

// StringField returns the named field as a trimmed string. Non-string and
// absent values yield "".
func (r Record) StringField(name string) string {
	if v, ok := r.Fields[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// APIError is a non-2xx response from the record store.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("record store: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("record store: status %d", e.StatusCode)
}

// Client issues requests against one base of the record store.
//
// The zero value is not usable; construct with NewClient. Client is safe
// for concurrent use.
type Client struct {
	apiKey     string
	baseID     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (tests point this at httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient constructs a record store client for the given base.
func NewClient(apiKey, baseID string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseID:     baseID,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// listResponse is a page of the store's list endpoint.
type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// errorResponse is the store's error body shape. The error value is
// usually an object but can degrade to a plain string.
type errorResponse struct {
	Error json.RawMessage `json:"error"`
}

// Find returns the records of table matching formula, following pagination
// until all pages are read. An empty formula returns the whole table.
// maxRecords caps the result when > 0.
func (c *Client) Find(ctx context.Context, table, formula string, maxRecords int) ([]Record, error) {
	var out []Record
	offset := ""
	for {
		q := url.Values{}
		if formula != "" {
			q.Set("filterByFormula", formula)
		}
		if maxRecords > 0 {
			q.Set("maxRecords", strconv.Itoa(maxRecords))
		}
		if offset != "" {
			q.Set("offset", offset)
		}
		u := c.tableURL(table)
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)
		if page.Offset == "" || (maxRecords > 0 && len(out) >= maxRecords) {
			break
		}
		offset = page.Offset
	}
	if maxRecords > 0 && len(out) > maxRecords {
		out = out[:maxRecords]
	}
	return out, nil
}

// Create inserts one record with the given fields and returns the stored
// row including its assigned ID.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	var rec Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update patches the named fields of an existing record by ID. Fields not
// present in the map are left untouched.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	var rec Record
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+url.PathEscape(id), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// tableURL builds the endpoint for a table, path-escaping names with
// spaces ("Call History").
func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

// do performs one HTTP round trip and decodes the JSON response into out.
// Non-2xx responses are mapped to *APIError with the upstream message.
func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("record store request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError extracts type/message from an error body, tolerating both
// the object form {"error":{"type":..,"message":..}} and the string form
// {"error":"NOT_FOUND"}.
func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var envelope errorResponse
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Error) > 0 {
		var obj struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &obj); err == nil && (obj.Type != "" || obj.Message != "") {
			apiErr.Type = obj.Type
			apiErr.Message = obj.Message
			return apiErr
		}
		var s string
		if err := json.Unmarshal(envelope.Error, &s); err == nil {
			apiErr.Message = s
		}
	}
	return apiErr
}
