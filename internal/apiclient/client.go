// Package apiclient talks to the Rememberizer vector store REST API.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the public Rememberizer API
	DefaultBaseURL = "https://api.rememberizer.ai/api/v1/"

	// maxResponseSize bounds how much of a response body is read (32MB)
	maxResponseSize = 32 << 20

	// errorPreviewSize bounds the body excerpt logged for failed calls
	errorPreviewSize = 1024
)

// Timeouts configures the outbound HTTP client.
type Timeouts struct {
	Connect time.Duration // Dial timeout
	Read    time.Duration // Time to wait for response headers
	Write   time.Duration // TLS handshake and 100-continue wait
	Pool    time.Duration // Idle connection lifetime; acquiring a connection is bounded by the request deadline (Connect + Read)
}

// DefaultTimeouts returns generous connect/read and short write/pool timeouts.
// Search and listing can be slow server-side.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect: 60 * time.Second,
		Read:    60 * time.Second,
		Write:   5 * time.Second,
		Pool:    5 * time.Second,
	}
}

// Options configures a Client.
type Options struct {
	BaseURL            string
	APIKey             string
	Timeouts           Timeouts
	InsecureSkipVerify bool
	HTTPClient         *http.Client // Overrides the client built from Timeouts
}

// Client calls the Rememberizer API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// VectorStore is the store bound to the API key.
type VectorStore struct {
	ID   string
	Info map[string]any // Raw whoami body
}

// NewClient creates a new API client.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key cannot be empty")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(opts.Timeouts, opts.InsecureSkipVerify)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for the Rememberizer API")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func newHTTPClient(t Timeouts, insecure bool) *http.Client {
	if t == (Timeouts{}) {
		t = DefaultTimeouts()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   t.Connect,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.ResponseHeaderTimeout = t.Read
	transport.TLSHandshakeTimeout = t.Write
	transport.ExpectContinueTimeout = t.Write
	transport.IdleConnTimeout = t.Pool
	if insecure {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = true // #nosec G402 -- opt-in via config
	}

	return &http.Client{
		Transport: transport,
		Timeout:   t.Connect + t.Read,
	}
}

// Get fetches path with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (any, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post sends body as JSON to path.
func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Patch sends body as JSON to path.
func (c *Client) Patch(ctx context.Context, path string, body any) (any, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

// Delete deletes path. A 204 or an empty body yields a nil value.
func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// WhoAmI resolves the vector store bound to the API key.
func (c *Client) WhoAmI(ctx context.Context) (*VectorStore, error) {
	data, err := c.Get(ctx, MeVectorStorePath, nil)
	if err != nil {
		return nil, err
	}

	info, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected vector store response of type %T", data)
	}

	id := stringify(info["id"])
	if id == "" {
		return nil, fmt.Errorf("vector store response has no id")
	}

	return &VectorStore{ID: id, Info: info}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	requestID := uuid.NewString()

	endpoint := c.baseURL + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger.DebugContext(ctx, "Calling Rememberizer API", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Connection error while calling Rememberizer API",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindConnection, Method: method, Path: path, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.ErrorContext(ctx, "Rememberizer API rejected the API key",
			"method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)
		return nil, &Error{Kind: KindUnauthorized, Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, errorPreviewSize))
		c.logger.ErrorContext(ctx, "HTTP error from Rememberizer API",
			"method", method, "path", path, "request_id", requestID,
			"status", resp.StatusCode, "body", string(preview))
		return nil, &Error{Kind: KindHTTPStatus, Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode == http.StatusNoContent {
		c.logger.DebugContext(ctx, "Rememberizer API returned no content", "method", method, "path", path, "request_id", requestID)
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to read Rememberizer API response",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindConnection, Method: method, Path: path, Cause: err}
	}

	if method == http.MethodDelete && len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	value, err := decodeJSON(data)
	if err != nil {
		c.logger.ErrorContext(ctx, "Invalid JSON from Rememberizer API",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindInvalidResponse, Method: method, Path: path, StatusCode: resp.StatusCode, Cause: err}
	}

	return value, nil
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return value, nil
}

func stringify(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}
