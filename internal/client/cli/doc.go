// Package cli provides the interactive taxdesk terminal client.
//
// It wires configuration, the local credential database, the API client,
// the session manager and the router, then runs a single event loop. The
// loop owns all view state: commands typed by the user, page loads posted by
// background watchers and router changes are all executed on it one at a
// time.
//
// Global commands:
//
//	help               list commands for the current page
//	go <path>          open a page, e.g. "go /payment"
//	nav                list the pages your role can open
//	status             who is signed in and when the token expires
//	reload             re-open the current page
//	refresh-session    re-fetch the signed-in user
//	renew              exchange the refresh token for a new pair
//	logout             sign out
//	exit | quit        leave the program
//
// The loop is started via App.Run(ctx), which blocks until the user exits or
// ctx is cancelled.
package cli
