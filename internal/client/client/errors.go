package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized means the access token is missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials means the login email/password was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation means the server rejected one or more fields.
	ErrValidation = errors.New("validation failed")
	// ErrNetworkOrServer covers transport failures and unexpected responses.
	ErrNetworkOrServer = errors.New("network or server error")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Kind       error
	StatusCode int
	Method     string
	Path       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error { return e.Kind }

// ValidationError carries the first server message for each rejected field.
type ValidationError struct {
	Fields    map[string]string
	RequestID string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Message returns a human-readable message for err, preferring what the
// server said. fallback is used when nothing better is known.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		if m, ok := vErr.Fields["non_field_errors"]; ok {
			return m
		}
	}
	return fallback
}
