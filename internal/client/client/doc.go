// Package client is the API Gateway Client of the tax administration
// backend.
//
// # Overview
//
// The Client interface is the transport contract used by the session manager
// and the views. HTTPClient implements it with JSON over net/http. On every
// request it reads the current access token from a TokenSource and sends it
// as a bearer credential, and it tags the request with an X-Request-ID.
//
// The client never writes tokens anywhere and never retries. Storing a
// returned TokenPair, or reacting to ErrUnauthorized, is the caller's job.
//
// # Error Handling
//
// Failures are reported with sentinel errors matched by errors.Is:
// ErrUnauthorized, ErrInvalidCredentials, ErrValidation and
// ErrNetworkOrServer. When the server answered, the error is an *APIError
// (status, server message, request id); a field-keyed 400 is a
// *ValidationError.
package client
