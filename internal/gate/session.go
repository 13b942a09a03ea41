// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package gate

// # Session Snapshot

// Profile holds the optional display record attached to a session.
type Profile struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Session is an immutable snapshot of the caller's identity at evaluation
// time. It is produced by the identity layer (or by the UI shell relaying
// its own fetch state) and is never mutated by consumers — a changed
// identity means a fresh snapshot and a fresh evaluation.
type Session struct {
	// Present is true once the identity fetch resolved to an authenticated caller.
	Present bool `json:"session_present"`

	// Loading is true while the identity fetch is still in flight.
	// While Loading, the guard must answer Wait — never a redirect —
	// to prevent redirect flicker on indeterminate identity.
	Loading bool `json:"is_loading"`

	// Roles the session holds. May be empty even when Present.
	Roles RoleSet `json:"-"`

	// Profile is the optional display record; nil for anonymous sessions.
	Profile *Profile `json:"profile,omitempty"`
}

// Anonymous returns the snapshot used when identity is unavailable: no
// session, not loading. Identity-layer failures map here so an errored
// fetch is treated as "not signed in", never as "authorized".
func Anonymous() Session {
	return Session{Present: false, Loading: false}
}

// Primary is shorthand for the session's primary routing role.
func (s Session) Primary() Role {
	return s.Roles.Primary()
}
