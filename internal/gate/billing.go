// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package gate

import (
	"time"

	"github.com/code-nation/client-success-hub/pkg/pointer"
)

// # Billing Standing

// Standing is the billing tier derived from an organization's overdue marker.
type Standing string

const (
	// StandingCurrent — no overdue marker; the account is in good standing.
	StandingCurrent Standing = "current"

	// StandingGrace — overdue for 0–13 whole days; full access continues
	// with a non-blocking advisory.
	StandingGrace Standing = "grace"

	// StandingSuspended — overdue for 14 days or more; normal screens are
	// replaced by the payment-restoration surface.
	StandingSuspended Standing = "suspended"
)

// GracePeriodDays is the width of the grace window. Day 14 itself is
// already suspended: the boundary is inclusive on the suspended side.
const GracePeriodDays = 14

// StandingReport is the immutable result of one standing evaluation.
type StandingReport struct {
	Standing Standing `json:"standing"`

	// DaysOverdue counts whole elapsed days since the marker was set.
	DaysOverdue int `json:"days_overdue"`

	// DaysUntilSuspension is how many whole days remain before hard
	// lockout. Nil when the account is current; not meaningful once
	// suspended and must not be read then.
	DaysUntilSuspension *int `json:"days_until_suspension,omitempty"`
}

/*
StandingOf computes the billing standing from the overdue marker.

Description: Standing is a pure, deterministic function of now-overdueSince,
never persisted — so it is always consistent with wall-clock time without a
background job. Callers must recompute on every render pass; the grace to
suspended transition can flip purely due to elapsed time with no new event.

Parameters:
  - overdueSince: *time.Time (nil = payment never became overdue)
  - now: time.Time

Returns:
  - StandingReport
*/
func StandingOf(overdueSince *time.Time, now time.Time) StandingReport {

	// Only a nil marker is current. A marker set "just now" is already
	// grace — any non-nil marker starts the clock immediately.
	if overdueSince == nil {
		return StandingReport{Standing: StandingCurrent, DaysOverdue: 0}
	}

	// Whole elapsed wall-clock days, floored. No rounding up, no timezone
	// adjustment, no calendar-day boundaries.
	daysOverdue := int(now.Sub(*overdueSince) / (24 * time.Hour))
	if daysOverdue < 0 {
		daysOverdue = 0
	}

	if daysOverdue >= GracePeriodDays {
		return StandingReport{Standing: StandingSuspended, DaysOverdue: daysOverdue}
	}

	return StandingReport{
		Standing:            StandingGrace,
		DaysOverdue:         daysOverdue,
		DaysUntilSuspension: pointer.To(GracePeriodDays - daysOverdue),
	}
}
