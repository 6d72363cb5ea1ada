// Package twilio implements the carrier client used for outbound SMS and
// message status lookups. Calls are single-attempt: transient carrier
// failures surface to the caller instead of being retried.
//
// Outbound requests pass through a token-bucket pacer so a burst of staff
// actions cannot exhaust the carrier-side quota; this is client-side
// politeness, distinct from the inbound request rate limiter.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production carrier API endpoint.
const DefaultBaseURL = "https://api.twilio.com"

// Message is the subset of the carrier's message resource the dashboard
// uses.
type Message struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	To           string `json:"to"`
	From         string `json:"from"`
	Body         string `json:"body"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	DateCreated  string `json:"date_created"`
}

// APIError is a non-2xx response from the carrier.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("carrier: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("carrier: status %d", e.StatusCode)
}

// Client issues SMS operations for one carrier account. Safe for
// concurrent use.
type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	pacer      *rate.Limiter
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

// WithPacer overrides the outbound token bucket. rps <= 0 disables pacing.
func WithPacer(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.pacer = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.pacer = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient constructs a carrier client sending from the given number.
func NewClient(accountSID, authToken, from string, opts ...Option) *Client {
	c := &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		pacer:      rate.NewLimiter(rate.Limit(5), 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// From returns the configured sender number.
func (c *Client) From() string { return c.from }

// SendSMS submits one outbound message and returns the carrier's message
// resource (SID and initial status).
func (c *Client) SendSMS(ctx context.Context, to, body string) (*Message, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	u := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	return c.roundTrip(req)
}

// GetMessage fetches the message resource for a SID, exposing delivery
// status to the dashboard.
func (c *Client) GetMessage(ctx context.Context, sid string) (*Message, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages/%s.json",
		c.baseURL, url.PathEscape(c.accountSID), url.PathEscape(sid))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	return c.roundTrip(req)
}

// wait blocks on the pacer, if one is configured.
func (c *Client) wait(ctx context.Context) error {
	if c.pacer == nil {
		return nil
	}
	return c.pacer.Wait(ctx)
}

// roundTrip executes the request and decodes either a Message or an
// *APIError from the response.
func (c *Client) roundTrip(req *http.Request) (*Message, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return nil, apiErr
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &msg, nil
}
