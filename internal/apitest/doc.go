// Package apitest is an in-memory stand-in for the tax administration REST
// API. It issues real HS256 JWTs, keeps accounts, tax accounts and payment
// requests in memory, and answers with the same JSON shapes and status codes
// as the production backend.
//
// Tests start it with NewServer; cmd/devapi serves it for local work.
package apitest
