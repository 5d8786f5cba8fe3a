// Package router maps paths to views and runs every navigation through the
// access gate.
//
// A Router follows the session: it subscribes on creation and re-resolves
// the current path whenever the session changes, so signing in or out moves
// the user without any caller asking for it.
package router
