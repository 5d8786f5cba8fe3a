// Package views implements the pages of the terminal client.
//
// Each route has one View. The CLI mounts a view when the router renders its
// path, forwards commands to it while it is shown, and unmounts it on the
// next navigation. Views never change the session except through the
// SessionManager.
package views
