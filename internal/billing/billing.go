// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

/*
Package billing owns the organization ledger the portal gates on.

# Overview

Every portal account belongs to an organization, and every organization has
a billing standing derived from a single marker: the instant its balance
became overdue. The package exposes that marker to the entitlement layer,
lets operations staff set and clear it, and hands paying clients off to the
external billing processor's self-service portal.

# Standing Semantics

Standing itself is computed in [gate.StandingOf]; this package stores and
serves the overdue marker that computation consumes. A marker that cannot be
read fails open to a current standing so that a billing outage never locks
a paying client out of support.
*/
package billing

import "time"

// # Entity

// Organization represents a client company with a portal contract.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// StripeCustomerID links the organization to the external billing
	// processor. Nil for organizations billed manually.
	StripeCustomerID *string `json:"stripe_customer_id,omitempty"`

	// OverdueSince is the overdue marker: nil means the balance is
	// settled, a timestamp means it has been outstanding since then.
	OverdueSince *time.Time `json:"overdue_since,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the billing domain.
const (
	FieldName         = "name"
	FieldOverdueSince = "overdue_since"
	FieldPortalURL    = "portal_url"
)
