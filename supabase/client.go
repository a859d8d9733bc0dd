package supabase

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

// Client is the entry point for one Supabase project.
type Client struct {
	cfg        Config
	httpClient *http.Client

	restURL    string
	authURL    string
	storageURL string
}

// New creates a client from explicit configuration. It does not talk to
// the network; invalid credentials surface on first use.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase: project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase: anon key is required")
	}

	baseURL := strings.TrimRight(cfg.URL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("supabase: invalid project URL: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		restURL:    baseURL + "/rest/v1",
		authURL:    baseURL + "/auth/v1",
		storageURL: baseURL + "/storage/v1",
	}, nil
}

// AccessContext is a handle onto the store at a fixed authorization level.
// All database and storage operations hang off it, so every call site names
// the level it runs at.
type AccessContext struct {
	client *Client
	token  string
}

// Anon returns a handle bound to the anonymous identity. Row level policies
// decide what it may read or write.
func (c *Client) Anon() *AccessContext {
	return &AccessContext{client: c, token: c.cfg.AnonKey}
}

// WithToken returns a handle that forwards the caller's own bearer token,
// so policies evaluate against the caller's identity. An empty token is
// equivalent to Anon.
func (c *Client) WithToken(token string) *AccessContext {
	if token == "" {
		return c.Anon()
	}
	return &AccessContext{client: c, token: token}
}

// Service returns a handle carrying the service role key, which bypasses
// row level policy. Reserve it for operations the caller's own identity is
// structurally unable to perform.
func (c *Client) Service() (*AccessContext, error) {
	if c.cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase: service role key not configured")
	}
	return &AccessContext{client: c, token: c.cfg.ServiceKey}, nil
}

// do performs one HTTP round trip. The anon key always rides along as the
// apikey header; the access context's token is the Authorization bearer.
func (ac *AccessContext) do(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) ([]byte, http.Header, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("supabase: build request: %w", err)
	}

	req.Header.Set("apikey", ac.client.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+ac.token)
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ac.client.httpClient.Do(req)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("supabase: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("supabase: read response: %w", err)
	}

	return respBody, resp.Header, resp.StatusCode, nil
}

// parseError turns an error response body into an *Error.
func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Details          string `json:"details"`
		Hint             string `json:"hint"`
		Err              string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return &Error{Code: "unknown", Message: string(body), StatusCode: statusCode}
	}

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Err
	}
	if msg == "" {
		msg = errResp.ErrorDescription
	}

	return &Error{
		Code:       errResp.Code,
		Message:    msg,
		Details:    errResp.Details,
		Hint:       errResp.Hint,
		StatusCode: statusCode,
	}
}
