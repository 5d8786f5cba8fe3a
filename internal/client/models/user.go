package models

import (
	"strings"
	"time"
)

// Account status values used by the admin console.
const (
	AccountActive   = "Active"
	AccountInactive = "Inactive"
)

// User is the authenticated account as returned by /auth/me/ and the login
// and register endpoints.
type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	AccountStatus string     `json:"account_status,omitempty"`
	LastLoginTime *time.Time `json:"last_login_time,omitempty"`
	DateJoined    *time.Time `json:"date_joined,omitempty"`
	FullName      string     `json:"full_name,omitempty"`
	Profile       *Profile   `json:"profile,omitempty"`
}

// DisplayName prefers the full name, then the profile's, then the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if n := strings.TrimSpace(u.FullName); n != "" {
		return n
	}
	if u.Profile != nil {
		if n := u.Profile.DisplayName(); n != "" {
			return n
		}
	}
	return u.Email
}

// Clone returns a deep copy so snapshots handed to observers cannot alias
// session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastLoginTime != nil {
		t := *u.LastLoginTime
		c.LastLoginTime = &t
	}
	if u.DateJoined != nil {
		t := *u.DateJoined
		c.DateJoined = &t
	}
	if u.Profile != nil {
		p := *u.Profile
		c.Profile = &p
	}
	return &c
}

// UserPatch holds the fields to merge into the session user. Nil fields are
// left untouched.
type UserPatch struct {
	Email         *string
	FullName      *string
	AccountStatus *string
	Profile       *Profile
}

// Apply merges p into u in place.
func (p UserPatch) Apply(u *User) {
	if u == nil {
		return
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.AccountStatus != nil {
		u.AccountStatus = *p.AccountStatus
	}
	if p.Profile != nil {
		prof := *p.Profile
		u.Profile = &prof
		if p.FullName == nil && prof.DisplayName() != "" {
			u.FullName = prof.DisplayName()
		}
	}
}

// TokenPair is the access/refresh credential pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResult is the body of a successful login or registration.
type AuthResult struct {
	Message string    `json:"message,omitempty"`
	User    User      `json:"user"`
	Tokens  TokenPair `json:"tokens"`
}

// Session is a snapshot of the client session. User is nil when nobody is
// signed in.
type Session struct {
	User    *User
	Loading bool
}

// Authenticated reports whether a user is resolved.
func (s Session) Authenticated() bool {
	return !s.Loading && s.User != nil
}
