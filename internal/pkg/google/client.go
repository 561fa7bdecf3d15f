package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saifgs/sheetbridge/internal/pkg/env"
)

const (
	defaultSheetsBaseURL = "https://sheets.googleapis.com"
	defaultDriveBaseURL  = "https://www.googleapis.com"
)

// maxAuthRetries caps the 401 retry at exactly one attempt. The original
// relied on a recursive call that happened to stop at one level; the cap
// makes that bound explicit.
const maxAuthRetries = 1

// TokenSource resolves the currently active bearer token.
type TokenSource interface {
	ActiveToken(ctx context.Context) (string, error)
}

// APIError is a non-2xx response from a Google endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Client wraps outbound calls to the Sheets and Drive REST APIs, attaching
// the active bearer token and retrying once on 401.
type Client struct {
	tokens     TokenSource
	httpClient *http.Client

	sheetsBaseURL string
	driveBaseURL  string
}

// NewClient creates a Google API client over the given token source. Base
// URLs are env-overridable so tests can point at a local server.
func NewClient(tokens TokenSource) *Client {
	return &Client{
		tokens:        tokens,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		sheetsBaseURL: env.GetEnv("GOOGLE_SHEETS_BASE_URL", defaultSheetsBaseURL),
		driveBaseURL:  env.GetEnv("GOOGLE_DRIVE_BASE_URL", defaultDriveBaseURL),
	}
}

// Request performs one authenticated call and decodes the JSON response.
// Caller headers are merged in but never clobber Authorization. On 401 the
// token is re-resolved and the call retried exactly once.
func (c *Client) Request(ctx context.Context, method, rawURL string, payload interface{}, headers map[string]string) (json.RawMessage, error) {
	return c.request(ctx, method, rawURL, payload, headers, 0)
}

func (c *Client) request(ctx context.Context, method, rawURL string, payload interface{}, headers map[string]string, attempt int) (json.RawMessage, error) {
	token, err := c.tokens.ActiveToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		if http.CanonicalHeaderKey(key) == "Authorization" {
			continue
		}
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))

	if resp.StatusCode == http.StatusUnauthorized && attempt < maxAuthRetries {
		return c.request(ctx, method, rawURL, payload, headers, attempt+1)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return json.RawMessage(raw), nil
}
