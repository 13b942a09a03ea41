// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/code-nation/client-success-hub/internal/gate"
)

/*
TestGuard_RuleOrder walks the decision rules in their fixed order, one case
per rule, confirming the first matching rule wins.
*/
func TestGuard_RuleOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    gate.GuardInput
		want     gate.Verdict
	}{
		{
			name: "bypass_renders_before_everything",
			input: gate.GuardInput{
				BypassActive:  true,
				Session:       gate.Session{Loading: true}, // would otherwise Wait
				RequiredRoles: gate.NewRoleSet(gate.RoleAdmin),
			},
			want: gate.Verdict{Kind: gate.VerdictRender},
		},
		{
			name:  "loading_waits",
			input: gate.GuardInput{Session: gate.Session{Loading: true}},
			want:  gate.Verdict{Kind: gate.VerdictWait},
		},
		{
			name:  "anonymous_redirects_to_login",
			input: gate.GuardInput{Session: gate.Anonymous()},
			want:  gate.Verdict{Kind: gate.VerdictRedirect, Path: gate.LoginPath},
		},
		{
			name: "missing_role_redirects_to_primary_home",
			input: gate.GuardInput{
				Session:       gate.Session{Present: true, Roles: gate.NewRoleSet(gate.RoleClient, gate.RoleSupport)},
				RequiredRoles: gate.NewRoleSet(gate.RoleAdmin),
			},
			want: gate.Verdict{Kind: gate.VerdictRedirect, Path: "/support"},
		},
		{
			name: "zero_roles_falls_back_to_login_not_a_role_path",
			input: gate.GuardInput{
				Session:       gate.Session{Present: true, Roles: gate.NewRoleSet()},
				RequiredRoles: gate.NewRoleSet(gate.RoleClient),
			},
			want: gate.Verdict{Kind: gate.VerdictRedirect, Path: gate.LoginPath},
		},
		{
			name: "matching_role_renders",
			input: gate.GuardInput{
				Session:       gate.Session{Present: true, Roles: gate.NewRoleSet(gate.RoleClient)},
				RequiredRoles: gate.NewRoleSet(gate.RoleClient, gate.RoleSupport),
			},
			want: gate.Verdict{Kind: gate.VerdictRender},
		},
		{
			name: "no_requirement_renders_for_any_session",
			input: gate.GuardInput{
				Session: gate.Session{Present: true},
			},
			want: gate.Verdict{Kind: gate.VerdictRender},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Guard(tt.input))
		})
	}
}

/*
TestGuard_NeverRendersOnEmptyIntersection sweeps disjoint role pairings with a
present session and asserts Render is impossible.
*/
func TestGuard_NeverRendersOnEmptyIntersection(t *testing.T) {
	callerSets := []gate.RoleSet{
		gate.NewRoleSet(),
		gate.NewRoleSet(gate.RoleClient),
		gate.NewRoleSet(gate.RoleClient, gate.RoleSupport),
		gate.NewRoleSet(gate.RoleAdmin),
	}
	requirements := []gate.RoleSet{
		gate.NewRoleSet(gate.RoleOps),
		gate.NewRoleSet(gate.RoleOps, gate.RoleAdmin),
	}

	for _, caller := range callerSets {
		for _, required := range requirements {
			if caller.Intersects(required) {
				continue
			}

			verdict := gate.Guard(gate.GuardInput{
				Session:       gate.Session{Present: true, Roles: caller},
				RequiredRoles: required,
			})

			assert.NotEqual(t, gate.VerdictRender, verdict.Kind,
				"caller=%v required=%v must never render", caller.Strings(), required.Strings())
		}
	}
}

/*
TestGuard_AnonymousAlwaysLogin verifies that without a session every non-bypass
input lands on the login redirect, whatever the role requirement.
*/
func TestGuard_AnonymousAlwaysLogin(t *testing.T) {
	requirements := []gate.RoleSet{
		nil,
		gate.NewRoleSet(),
		gate.NewRoleSet(gate.RoleClient),
		gate.NewRoleSet(gate.RoleOps, gate.RoleAdmin, gate.RoleSupport, gate.RoleClient),
	}

	for _, required := range requirements {
		verdict := gate.Guard(gate.GuardInput{Session: gate.Anonymous(), RequiredRoles: required})
		assert.Equal(t, gate.Verdict{Kind: gate.VerdictRedirect, Path: gate.LoginPath}, verdict)
	}
}

/*
TestGuard_Idempotent confirms two evaluations of identical input yield
identical verdicts — no hidden state.
*/
func TestGuard_Idempotent(t *testing.T) {
	input := gate.GuardInput{
		Session:       gate.Session{Present: true, Roles: gate.NewRoleSet(gate.RoleSupport)},
		RequiredRoles: gate.NewRoleSet(gate.RoleAdmin),
	}

	first := gate.Guard(input)
	second := gate.Guard(input)

	assert.Equal(t, first, second)
}

/*
TestGuard_RoleHomesOnlyRequireOwnRole asserts the redirect-to-home fallback can
never chain into another redirect: a session holding role R always renders R's
home screen when that screen requires exactly R.
*/
func TestGuard_RoleHomesOnlyRequireOwnRole(t *testing.T) {
	for _, role := range []gate.Role{gate.RoleOps, gate.RoleAdmin, gate.RoleSupport, gate.RoleClient} {
		verdict := gate.Guard(gate.GuardInput{
			Session:       gate.Session{Present: true, Roles: gate.NewRoleSet(role)},
			RequiredRoles: gate.NewRoleSet(role),
		})

		assert.Equal(t, gate.VerdictRender, verdict.Kind, "home of %q must render for %q", role, role)
	}
}
