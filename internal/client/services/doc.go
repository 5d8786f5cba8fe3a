// Package services contains the application services of the taxdesk client.
//
// SessionManager is the single source of truth for who is signed in. It owns
// the current user and the loading flag, persists the credential pair through
// the Credential Store, and notifies subscribers synchronously whenever the
// session changes.
package services
