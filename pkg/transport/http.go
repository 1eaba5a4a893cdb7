package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTP is the default Transport, issuing JSON requests over net/http.
type HTTP struct {
	httpClient  *http.Client
	token       string // optional bearer token
	recordsPath RecordsPath
	pathErr     error
	logger      *slog.Logger
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(t *HTTP) {
		t.httpClient.Timeout = timeout
	}
}

// WithToken sets the bearer auth token.
func WithToken(token string) Option {
	return func(t *HTTP) {
		t.token = token
	}
}

// WithClient replaces the underlying http.Client.
func WithClient(client *http.Client) Option {
	return func(t *HTTP) {
		t.httpClient = client
	}
}

// WithRecordsPath sets a JSONPath selector applied to response
// payloads to pull the record list out of an envelope, e.g.
// "data.items". An invalid path surfaces as an error on the first
// Perform call.
func WithRecordsPath(path string) Option {
	return func(t *HTTP) {
		t.recordsPath, t.pathErr = ParseRecordsPath(path)
	}
}

// WithLogger sets the logger for request-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(t *HTTP) {
		t.logger = logger
	}
}

// NewHTTP creates an HTTP transport.
func NewHTTP(opts ...Option) *HTTP {
	t := &HTTP{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Perform issues one request. A non-nil body is JSON encoded. Non-2xx
// statuses return an *Error carrying the decoded response so failure
// payloads (validation errors) remain available to the caller.
func (t *HTTP) Perform(ctx context.Context, method, url string, body any) (*Response, error) {
	if t.pathErr != nil {
		return nil, t.pathErr
	}

	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Status: resp.StatusCode,
		Body:   payload,
		Path:   t.recordsPath,
	}

	if t.logger != nil {
		t.logger.Debug("request completed",
			"method", method, "url", url, "status", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Response: response}
	}
	return response, nil
}
