// Package voiceflow implements the client for the conversational-AI
// runtime that places outbound voice calls. The dashboard uses a single
// operation: trigger a fraud-alert call to a phone number, passing the
// client's name as a conversation variable.
package voiceflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production runtime API endpoint.
const DefaultBaseURL = "https://runtime-api.voiceflow.com"

// APIError is a non-2xx response from the voice runtime.
type APIError struct {
	StatusCode int
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("voice runtime: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("voice runtime: status %d", e.StatusCode)
}

// Client triggers outbound calls through one configured phone number.
// Safe for concurrent use.
type Client struct {
	apiKey        string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (tests point this at httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient constructs a voice runtime client.
func NewClient(apiKey, phoneNumberID string, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		phoneNumberID: phoneNumberID,
		baseURL:       DefaultBaseURL,
		httpClient:    &http.Client{Timeout: 20 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// outboundRequest is the runtime's call-trigger payload. Variables feed
// the conversation flow; fraud_alert switches the agent onto the alert
// script.
type outboundRequest struct {
	To        string            `json:"to"`
	Variables map[string]string `json:"variables"`
}

// Call triggers an outbound fraud-alert call to phone. name may be empty;
// the agent greets generically in that case.
func (c *Client) Call(ctx context.Context, phone, name string) error {
	body, err := json.Marshal(outboundRequest{
		To: phone,
		Variables: map[string]string{
			"fraud_alert": "yes",
			"name":        name,
		},
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/v1alpha1/phone-number/%s/outbound", c.baseURL, url.PathEscape(c.phoneNumberID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("voice runtime request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	data, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Details: data}
	_ = json.Unmarshal(data, apiErr)
	return apiErr
}
