package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
	"github.com/google/uuid"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// HTTPClient talks JSON to the backend REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        logging.Logger
}

// Option customises an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// NewHTTPClient builds a client for baseURL, e.g. "http://localhost:8000/api".
// tokens may be nil for a client that never authenticates.
func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		log:        log.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call describes one request. loginCall switches 400/401 handling to
// ErrInvalidCredentials.
type call struct {
	method    string
	path      string
	query     url.Values
	body      any
	loginCall bool
}

// do performs c and decodes a 2xx JSON body into out (when non-nil).
func (h *HTTPClient) do(ctx context.Context, c call, out any) error {
	requestURL := h.baseURL + c.path
	if len(c.query) > 0 {
		requestURL += "?" + c.query.Encode()
	}

	var bodyReader io.Reader
	if c.body != nil {
		encoded, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", c.method, c.path, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: build %s %s: %w", ErrNetworkOrServer, c.method, c.path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.tokens != nil {
		if token, ok := h.tokens.AccessToken(ctx); ok && token != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.Warn(ctx, "request failed", "method", c.method, "path", c.path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrNetworkOrServer, c.method, c.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrNetworkOrServer, c.method, c.path, err)
	}

	h.log.Debug(ctx, "request done",
		"method", c.method, "path", c.path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(started))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: decode %s %s: %w", ErrNetworkOrServer, c.method, c.path, err)
		}
		return nil
	}

	return mapStatus(c, resp.StatusCode, body, requestID)
}

// mapStatus turns a non-2xx answer into the client error taxonomy.
func mapStatus(c call, status int, body []byte, requestID string) error {
	apiErr := &APIError{
		Kind:       ErrNetworkOrServer,
		StatusCode: status,
		Method:     c.method,
		Path:       c.path,
		Message:    serverMessage(body),
		RequestID:  requestID,
	}

	switch {
	case c.loginCall && (status == http.StatusBadRequest || status == http.StatusUnauthorized):
		apiErr.Kind = ErrInvalidCredentials
		return apiErr
	case status == http.StatusUnauthorized:
		apiErr.Kind = ErrUnauthorized
		return apiErr
	case status == http.StatusBadRequest:
		if fields := fieldErrors(body); len(fields) > 0 {
			return &ValidationError{Fields: fields, RequestID: requestID}
		}
	}
	return apiErr
}

// serverMessage pulls the human message out of {"error": ...},
// {"detail": ...} or {"non_field_errors": [...]}.
func serverMessage(body []byte) string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "non_field_errors", "message"} {
		if raw, ok := m[key]; ok {
			if s := firstString(raw); s != "" {
				return s
			}
		}
	}
	return ""
}

// fieldErrors decodes a DRF-style {"field": ["msg", ...]} body, keeping the
// first message per field. Bodies that only carry a generic error or detail
// are not field errors.
func fieldErrors(body []byte) map[string]string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil
	}
	fields := make(map[string]string, len(m))
	for k, raw := range m {
		if k == "error" || k == "detail" {
			continue
		}
		if s := firstString(raw); s != "" {
			fields[k] = s
		}
	}
	return fields
}

func firstString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return firstString(list[0])
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, v := range obj {
			if s := firstString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// decodeList accepts either a bare JSON array or a paginated {"results": [...]}.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: decode list: %w", ErrNetworkOrServer, err)
	}
	return page.Results, nil
}

// Ping reports whether the backend answers at all. Any HTTP response counts.
func (h *HTTPClient) Ping(ctx context.Context) error {
	err := h.do(ctx, call{method: http.MethodGet, path: "/"}, nil)
	var apiErr *APIError
	if err == nil || errors.As(err, &apiErr) {
		return nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return nil
	}
	return err
}
