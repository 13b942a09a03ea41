// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package gate

import "time"

// # Entitlement Decisions

// DecisionKind tags the variant of a [Decision].
type DecisionKind string

const (
	// DecisionRender — show the screen's normal content.
	DecisionRender DecisionKind = "render"

	// DecisionRedirect — issue a redirect; no content is rendered.
	DecisionRedirect DecisionKind = "redirect"

	// DecisionWait — identity still loading; show a loading affordance.
	DecisionWait DecisionKind = "wait"

	// DecisionLockout — replace the screen content entirely with the
	// payment-restoration surface.
	DecisionLockout DecisionKind = "lockout"
)

// Decision is the single authorization answer presented to the UI shell for
// one screen. It is immutable once produced; every relevant input change
// (session, route, clock) yields a fresh Decision.
type Decision struct {
	Kind DecisionKind `json:"kind"`

	// Path is the redirect target; set only for DecisionRedirect.
	Path string `json:"path,omitempty"`

	// Billing is the standing report backing this decision. Always set
	// except when the verdict never reached billing (Wait/Redirect).
	Billing *StandingReport `json:"billing,omitempty"`

	// Advisory is true when the screen renders normally but a non-blocking
	// grace-period advisory must accompany it.
	Advisory bool `json:"advisory,omitempty"`
}

// BillingInput is the billing-side input to one gate evaluation.
type BillingInput struct {
	// OverdueSince is the organization's overdue marker — the sole source
	// of truth for billing standing. No separate status enum is trusted.
	OverdueSince *time.Time

	// LookupFailed marks that the billing record could not be fetched.
	// Enforcement fails open to current standing (billing is an
	// account-standing convenience, not a security boundary), but the
	// failure stays distinguishable for telemetry.
	LookupFailed bool
}

/*
Evaluate composes the route guard and the billing standing into the final
entitlement decision for a screen.

Description: A screen is reachable only if the guard answers Render AND the
standing is not suspended. Grace renders normally plus an advisory flag.
Suspension replaces the screen regardless of the guard verdict — except
under the preview bypass, which is "render everything, gate nothing": it
suppresses billing enforcement as well as role checks.

Parameters:
  - guard: GuardInput
  - billing: BillingInput
  - now: time.Time (wall clock; standing is recomputed on every call)

Returns:
  - Decision
*/
func Evaluate(guard GuardInput, billing BillingInput, now time.Time) Decision {
	verdict := Guard(guard)

	// Bypass short-circuits billing too.
	if guard.BypassActive {
		return Decision{Kind: DecisionRender}
	}

	switch verdict.Kind {
	case VerdictWait:
		return Decision{Kind: DecisionWait}
	case VerdictRedirect:
		return Decision{Kind: DecisionRedirect, Path: verdict.Path}
	}

	// Guard said Render; billing has the final word.
	standing := StandingOf(billing.OverdueSince, now)
	if billing.LookupFailed {
		standing = StandingReport{Standing: StandingCurrent}
	}

	if standing.Standing == StandingSuspended {
		return Decision{Kind: DecisionLockout, Billing: &standing}
	}

	return Decision{
		Kind:     DecisionRender,
		Billing:  &standing,
		Advisory: standing.Standing == StandingGrace,
	}
}
