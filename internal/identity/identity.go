// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

/*
Package identity implements the account and session layer behind the gate's
IdentitySource.

It covers the passwordless sign-in lifecycle: an account requests a one-time
passcode by email, verifies it, and receives an RS256 JWT carrying its role
tags. Downstream, the entitlement gate consumes only the session snapshot this
package produces — it never touches accounts or tokens directly.

# Architecture

  - Service: Orchestrates passcode issuance, verification, and snapshots.
  - Repository: Abstracted interfaces for Postgres (Accounts) and Redis (Passcodes).
  - Security: Bcrypt-hashed passcodes and RSA-signed JWTs via platform/sec.
*/
package identity

import (
	"time"

	"github.com/code-nation/client-success-hub/internal/gate"
)

// # Domain Entities

// Account represents a person with access to the portal: an account holder,
// support agent, operations engineer, or workspace administrator.
type Account struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	OrgID       string    `json:"org_id"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleSet returns the account's role tags as a validated [gate.RoleSet].
// Corrupt tags are dropped at this boundary, before any evaluator sees them.
func (a *Account) RoleSet() gate.RoleSet {
	return gate.ParseRoleSet(a.Roles)
}

// Profile returns the optional display record the gate's session snapshot carries.
func (a *Account) Profile() *gate.Profile {
	return &gate.Profile{
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Phone:       a.Phone,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the identity domain.
const (
	FieldEmail       = "email"
	FieldCode        = "code"
	FieldDisplayName = "display_name"
	FieldPhone       = "phone"
	FieldAccessToken = "access_token"
	FieldMessage     = "message"
)
