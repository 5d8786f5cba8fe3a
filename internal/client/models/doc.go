// Package models defines the data exchanged with the tax administration API
// and the client-side session state built from it.
package models
