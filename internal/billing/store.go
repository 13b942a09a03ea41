// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package billing

import (
	"context"
	"time"
)

// # Organization Data Access

// OrganizationRepository defines the data access contract for organizations.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs; the Postgres implementation sits alongside
// in store_postgres.go.
type OrganizationRepository interface {

	/*
		List returns a paginated slice of organizations and the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Organization: One page of organizations, ordered by name
		  - int: Total count for pagination
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Organization, int, error)

	/*
		FindByID returns the organization with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Organization: Hydrated entity
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*Organization, error)

	/*
		Create persists a brand-new organization. The caller generates
		the ID and slug beforehand.

		Parameters:
		  - context: context.Context
		  - organization: *Organization

		Returns:
		  - error: Persistence failures, apperr.Conflict on a duplicate slug
	*/
	Create(context context.Context, organization *Organization) error

	/*
		SetOverdueSince writes or clears the overdue marker.

		Parameters:
		  - context: context.Context
		  - id: string
		  - since: *time.Time (nil clears the marker)

		Returns:
		  - error: apperr.NotFound when absent, otherwise persistence failures
	*/
	SetOverdueSince(context context.Context, id string, since *time.Time) error
}
