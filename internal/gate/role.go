// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

/*
Package gate implements the Session & Entitlement Gate — the decision core of
the Client Success Hub.

It answers two independent questions for every guarded screen: who is this
session and what may it do (role authorization), and is the organization's
account in good standing (billing enforcement).

Architecture:

  - RoleSet / Primary: resolves a session's role tags into one routing role.
  - RouteGuard: ordered rules producing a render/redirect/wait verdict.
  - StandingOf: computes billing standing from a single overdue timestamp.
  - Evaluate: composes both into the final decision served to the UI shell.

Every function in this package is pure, synchronous, and total over its
documented inputs. Nothing here performs I/O, holds locks, or caches state;
callers re-run the evaluation on every input change (session, route, clock).
*/
package gate

// # Roles

// Role identifies which audience a portal session belongs to.
type Role string

const (
	// Operations staff — platform runbooks, billing overrides
	RoleOps Role = "ops"

	// Workspace administrators of a client organization
	RoleAdmin Role = "admin"

	// Support agents working the ticket queues
	RoleSupport Role = "support"

	// Account holders — the default portal audience
	RoleClient Role = "client"

	// RoleNone is the zero value: a session holding no roles at all.
	RoleNone Role = ""
)

// Valid reports whether the role tag belongs to the closed role set.
// Corrupt tags must be rejected here, at the boundary, before they
// reach any evaluator.
func (r Role) Valid() bool {
	switch r {
	case RoleOps, RoleAdmin, RoleSupport, RoleClient:
		return true
	}
	return false
}

// HomePath returns the default landing route for the role ("/ops", "/admin", ...).
// RoleNone has no home; callers must fall back to the login path.
func (r Role) HomePath() string {
	if r == RoleNone {
		return ""
	}
	return "/" + string(r)
}

// precedence maps a role to its position in the fixed total order used by
// [RoleSet.Primary]. Staff roles are supersets of privilege in practice, so
// the most powerful role wins the default landing surface.
func (r Role) precedence() int {
	switch r {
	case RoleOps:
		return 40
	case RoleAdmin:
		return 30
	case RoleSupport:
		return 20
	case RoleClient:
		return 10
	default:
		return 0
	}
}

// # Role Sets

// RoleSet is an unordered, duplicate-free collection of role tags.
// A session may hold zero, one, or many roles simultaneously.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from tags, silently dropping duplicates and
// tags outside the closed role set.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		if role.Valid() {
			set[role] = struct{}{}
		}
	}
	return set
}

// ParseRoleSet builds a RoleSet from raw string tags (e.g. JWT claims or a
// Postgres TEXT[] column), dropping anything that is not a known role.
func ParseRoleSet(tags []string) RoleSet {
	set := make(RoleSet, len(tags))
	for _, tag := range tags {
		role := Role(tag)
		if role.Valid() {
			set[role] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// IsEmpty reports whether the session holds no roles.
func (s RoleSet) IsEmpty() bool { return len(s) == 0 }

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	for role := range s {
		if other.Has(role) {
			return true
		}
	}
	return false
}

// Primary resolves the set into the single role used for default routing.
//
// # Precedence
//
// ops > admin > support > client, a fixed total order. The result is
// independent of insertion or map iteration order. The empty set resolves
// to [RoleNone]; it is the caller's job to treat that as "no home route".
func (s RoleSet) Primary() Role {
	primary := RoleNone
	for role := range s {
		if role.precedence() > primary.precedence() {
			primary = role
		}
	}
	return primary
}

// Strings returns the set as sorted-by-precedence string tags, highest first.
// Used for JWT claims and JSON payloads where a stable order keeps output
// deterministic.
func (s RoleSet) Strings() []string {
	ordered := make([]string, 0, len(s))
	for _, role := range []Role{RoleOps, RoleAdmin, RoleSupport, RoleClient} {
		if s.Has(role) {
			ordered = append(ordered, string(role))
		}
	}
	return ordered
}
