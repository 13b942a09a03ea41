// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package gate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/pkg/pointer"
)

// daysAgo returns a marker n whole days (plus a small cushion) before now,
// so floor division lands exactly on n.
func daysAgo(now time.Time, n int) *time.Time {
	t := now.Add(-time.Duration(n)*24*time.Hour - time.Minute)
	return &t
}

/*
TestStandingOf covers the standing tiers and the inclusive suspended boundary.
*/
func TestStandingOf(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		overdueSince  *time.Time
		wantStanding  gate.Standing
		wantDays      int
		wantRemaining *int
	}{
		{"nil_marker_is_current", nil, gate.StandingCurrent, 0, nil},
		{"marker_just_now_is_grace_not_current", pointer.To(now.Add(-time.Second)), gate.StandingGrace, 0, pointer.To(14)},
		{"day_13_still_grace", daysAgo(now, 13), gate.StandingGrace, 13, pointer.To(1)},
		{"day_14_is_suspended", daysAgo(now, 14), gate.StandingSuspended, 14, nil},
		{"day_20_is_suspended", daysAgo(now, 20), gate.StandingSuspended, 20, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := gate.StandingOf(tt.overdueSince, now)

			assert.Equal(t, tt.wantStanding, report.Standing)
			assert.Equal(t, tt.wantDays, report.DaysOverdue)
			assert.Equal(t, tt.wantRemaining, report.DaysUntilSuspension)
		})
	}
}

/*
TestStandingOf_FloorsPartialDays verifies elapsed time is floored to whole
days: 13 days and 23 hours overdue is still day 13, still grace.
*/
func TestStandingOf_FloorsPartialDays(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	marker := now.Add(-(13*24*time.Hour + 23*time.Hour))

	report := gate.StandingOf(&marker, now)

	assert.Equal(t, gate.StandingGrace, report.Standing)
	assert.Equal(t, 13, report.DaysOverdue)
	require.NotNil(t, report.DaysUntilSuspension)
	assert.Equal(t, 1, *report.DaysUntilSuspension)
}

/*
TestStandingOf_FutureMarkerClampsToZero pins the boundary behavior for a
marker slightly ahead of the observer's clock (skew between hosts): clamped
to day zero, grace.
*/
func TestStandingOf_FutureMarkerClampsToZero(t *testing.T) {
	now := time.Now()
	marker := now.Add(30 * time.Second)

	report := gate.StandingOf(&marker, now)

	assert.Equal(t, gate.StandingGrace, report.Standing)
	assert.Equal(t, 0, report.DaysOverdue)
}

/*
TestStandingOf_Idempotent confirms identical inputs yield identical reports.
*/
func TestStandingOf_Idempotent(t *testing.T) {
	now := time.Now()
	marker := now.Add(-5 * 24 * time.Hour)

	assert.Equal(t, gate.StandingOf(&marker, now), gate.StandingOf(&marker, now))
}

/*
TestStandingOf_ObserversConverge models two sessions straddling the
suspension boundary: one evaluates just before day 14, one just after. The
momentary disagreement is acceptable eventual consistency — both must agree
once re-evaluated at the same instant.
*/
func TestStandingOf_ObserversConverge(t *testing.T) {
	marker := time.Date(2026, time.February, 24, 12, 0, 0, 0, time.UTC)
	boundary := marker.Add(gate.GracePeriodDays * 24 * time.Hour)

	early := gate.StandingOf(&marker, boundary.Add(-time.Second))
	late := gate.StandingOf(&marker, boundary.Add(time.Second))

	assert.Equal(t, gate.StandingGrace, early.Standing)
	assert.Equal(t, gate.StandingSuspended, late.Standing)

	// Re-evaluated at one shared instant, both observers converge.
	after := boundary.Add(time.Minute)
	assert.Equal(t, gate.StandingOf(&marker, after), gate.StandingOf(&marker, after))
}
