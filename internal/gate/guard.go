// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package gate

// # Verdicts

// VerdictKind tags the variant of a [Verdict].
type VerdictKind string

const (
	// VerdictRender lets the guarded screen render its children.
	VerdictRender VerdictKind = "render"

	// VerdictRedirect sends the caller to Verdict.Path instead of rendering.
	VerdictRedirect VerdictKind = "redirect"

	// VerdictWait keeps the screen on a loading affordance until the
	// identity fetch settles. No redirect is issued while identity is
	// indeterminate.
	VerdictWait VerdictKind = "wait"
)

// LoginPath is the unauthenticated surface every failed check falls back to.
const LoginPath = "/login"

// Verdict is the immutable output of one guard evaluation.
type Verdict struct {
	Kind VerdictKind `json:"kind"`
	// Path is the redirect target; set only when Kind is VerdictRedirect.
	Path string `json:"path,omitempty"`
}

// # Route Guard

// GuardInput carries everything one guard evaluation needs. A zero value is
// a valid input: anonymous session, no requirement, no bypass.
type GuardInput struct {
	// BypassActive is the explicit, environment-gated preview override.
	// The gate trusts this boolean as handed to it; the allow-list check
	// is a hard requirement on the caller (internal/preview), not here.
	BypassActive bool

	// Session is the identity snapshot under evaluation.
	Session Session

	// RequiredRoles is the screen's role constraint from the route table.
	// Nil or empty means the screen only requires a signed-in session.
	RequiredRoles RoleSet
}

/*
Guard decides whether a guarded screen may render for the given input.

Description: Applies the fixed rule order below; the first matching rule
wins and the order must be preserved exactly.

 1. Bypass active           → Render, skipping every other check.
 2. Identity still loading  → Wait.
 3. No session present      → Redirect to the login surface.
 4. Required roles unmet    → Redirect to the primary role's home,
    or to login when the session holds no roles at all.
 5. Otherwise               → Render.

Parameters:
  - input: GuardInput

Returns:
  - Verdict: restricted to {Render, Redirect, Wait}
*/
func Guard(input GuardInput) Verdict {

	// ── 1. Preview Bypass ─────────────────────────────────────────────────
	// Not a security boundary: a controlled escape hatch for demonstration
	// contexts, reachable only through the environment allow-list upstream.
	if input.BypassActive {
		return Verdict{Kind: VerdictRender}
	}

	// ── 2. Indeterminate Identity ─────────────────────────────────────────
	if input.Session.Loading {
		return Verdict{Kind: VerdictWait}
	}

	// ── 3. Anonymous Caller ───────────────────────────────────────────────
	if !input.Session.Present {
		return Verdict{Kind: VerdictRedirect, Path: LoginPath}
	}

	// ── 4. Role Constraint ────────────────────────────────────────────────
	if !input.RequiredRoles.IsEmpty() && !input.Session.Roles.Intersects(input.RequiredRoles) {
		// A zero-role session has no home route to land on. The login
		// fallback is mandatory here, never a path that doesn't exist.
		primary := input.Session.Primary()
		if primary == RoleNone {
			return Verdict{Kind: VerdictRedirect, Path: LoginPath}
		}
		return Verdict{Kind: VerdictRedirect, Path: primary.HomePath()}
	}

	// ── 5. Authorized ─────────────────────────────────────────────────────
	return Verdict{Kind: VerdictRender}
}
