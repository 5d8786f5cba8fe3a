// Package access decides whether a session may see a route.
//
// Decide and RoleHome are pure. Callers re-evaluate them on every
// navigation and every session change instead of caching the result.
package access
