// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

/*
Package entitlement answers one question for the portal shell: given who is
asking and which screen they want, what happens next?

# Overview

The shell calls the decision endpoint before every screen transition. The
answer composes three inputs it never computes itself: the session snapshot
(internal/identity), the billing standing marker (internal/billing), and the
preview bypass flag (internal/preview). The composition rules live in
internal/gate; this package owns the route table that maps screen paths to
role requirements and the HTTP surface that serves decisions.
*/
package entitlement

import (
	"fmt"
	"strings"

	"github.com/code-nation/client-success-hub/internal/gate"
)

// # Route Table

// Route binds a screen path prefix to its access requirement.
type Route struct {
	// Prefix matches the screen path by segment prefix: "/support"
	// matches "/support" and "/support/tickets/42", never "/supportx".
	Prefix string

	// Required is the role constraint; empty means any signed-in session.
	Required gate.RoleSet

	// Public marks screens that render for anonymous callers (login,
	// password-less verify, static marketing pages).
	Public bool
}

// Table resolves screen paths to routes. Longest prefix wins, so nested
// screens can narrow their parent's requirement.
type Table struct {
	routes []Route
}

/*
NewTable constructs a route [Table] and verifies the role-home invariant.

Description: Every role's home screen must require exactly that one role.
The guard redirects a role-mismatched caller to their primary role's home;
if that home demanded anything else the redirect could bounce forever, so a
table violating the invariant is a programming error and panics at startup.

Parameters:
  - routes: []Route

Returns:
  - *Table
*/
func NewTable(routes []Route) *Table {
	table := &Table{routes: routes}

	for _, role := range []gate.Role{gate.RoleClient, gate.RoleSupport, gate.RoleAdmin, gate.RoleOps} {
		route, ok := table.Lookup(role.HomePath())
		if !ok {
			panic(fmt.Sprintf("entitlement: role home %q is not routed", role.HomePath()))
		}
		if len(route.Required) != 1 || !route.Required.Has(role) {
			panic(fmt.Sprintf("entitlement: role home %q must require exactly the %q role", role.HomePath(), role))
		}
	}

	return table
}

// DefaultRoutes returns the portal's screen map.
func DefaultRoutes() []Route {
	return []Route{
		{Prefix: "/login", Public: true},
		{Prefix: "/verify", Public: true},

		// Role homes. The single-role requirement here is load-bearing:
		// see the invariant in NewTable.
		{Prefix: "/client", Required: gate.NewRoleSet(gate.RoleClient)},
		{Prefix: "/support", Required: gate.NewRoleSet(gate.RoleSupport)},
		{Prefix: "/admin", Required: gate.NewRoleSet(gate.RoleAdmin)},
		{Prefix: "/ops", Required: gate.NewRoleSet(gate.RoleOps)},

		// Shared screens: any signed-in session.
		{Prefix: "/account", Required: gate.RoleSet{}},
		{Prefix: "/", Required: gate.RoleSet{}},
	}
}

/*
Lookup resolves a screen path to its route by longest matching prefix.

Parameters:
  - path: string (cleaned screen path, e.g. "/support/tickets/42")

Returns:
  - Route: Matched route
  - bool: False when nothing matches
*/
func (table *Table) Lookup(path string) (Route, bool) {
	var best Route
	bestLen := -1

	for _, route := range table.routes {
		if !prefixMatches(path, route.Prefix) {
			continue
		}
		if len(route.Prefix) > bestLen {
			best = route
			bestLen = len(route.Prefix)
		}
	}

	return best, bestLen >= 0
}

// prefixMatches reports whether path falls under prefix on a segment
// boundary.
func prefixMatches(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
