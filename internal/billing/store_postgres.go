// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code-nation/client-success-hub/internal/platform/database/schema"
	"github.com/code-nation/client-success-hub/internal/platform/dberr"
)

// # Organization Repository

// PostgresOrganizationRepository implements the OrganizationRepository interface using pgx.
type PostgresOrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new PostgreSQL implementation of the OrganizationRepository.
func NewOrganizationRepository(pool *pgxpool.Pool) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{pool: pool}
}

// organizationColumns is the hydration column list; deletedat is a filter,
// never scanned.
var organizationColumns = strings.Join([]string{
	schema.PortalOrganization.ID,
	schema.PortalOrganization.Name,
	schema.PortalOrganization.Slug,
	schema.PortalOrganization.StripeCustomerID,
	schema.PortalOrganization.OverdueSince,
	schema.PortalOrganization.CreatedAt,
	schema.PortalOrganization.UpdatedAt,
}, ", ")

/*
List retrieves one page of organizations, ordered by name, with the total count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Organization: One page of organizations
  - int: Total count for pagination
  - error: Database retrieval failures
*/
func (repository *PostgresOrganizationRepository) List(context context.Context, limit, offset int) ([]*Organization, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE %s IS NULL`,
		schema.PortalOrganization.Table, schema.PortalOrganization.DeletedAt)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_organization_repo_count_failed: %w", err), "count organizations")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2`,
		organizationColumns, schema.PortalOrganization.Table,
		schema.PortalOrganization.DeletedAt, schema.PortalOrganization.Name)

	rows, err := repository.pool.Query(context, listQuery, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_organization_repo_list_failed: %w", err), "list organizations")
	}
	defer rows.Close()

	organizations := make([]*Organization, 0, limit)
	for rows.Next() {
		organization := &Organization{}
		if err := rows.Scan(
			&organization.ID,
			&organization.Name,
			&organization.Slug,
			&organization.StripeCustomerID,
			&organization.OverdueSince,
			&organization.CreatedAt,
			&organization.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan organization")
		}
		organizations = append(organizations, organization)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate organizations")
	}

	return organizations, total, nil
}

/*
FindByID retrieves an organization record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Organization: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresOrganizationRepository) FindByID(context context.Context, id string) (*Organization, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		organizationColumns, schema.PortalOrganization.Table,
		schema.PortalOrganization.ID, schema.PortalOrganization.DeletedAt)

	organization := &Organization{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&organization.ID,
		&organization.Name,
		&organization.Slug,
		&organization.StripeCustomerID,
		&organization.OverdueSince,
		&organization.CreatedAt,
		&organization.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "find organization")
	}

	return organization, nil
}

/*
Create persists a new organization record into the portal.organization table.

Parameters:
  - context: context.Context
  - organization: *Organization

Returns:
  - error: apperr.Conflict on a duplicate slug, otherwise persistence failures
*/
func (repository *PostgresOrganizationRepository) Create(context context.Context, organization *Organization) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.PortalOrganization.Table, organizationColumns)

	now := time.Now()
	if organization.CreatedAt.IsZero() {
		organization.CreatedAt = now
	}
	organization.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		organization.ID,
		organization.Name,
		organization.Slug,
		organization.StripeCustomerID,
		organization.OverdueSince,
		organization.CreatedAt,
		organization.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_organization_repo_create_failed: %w", err), "create organization")
	}

	return nil
}

/*
SetOverdueSince writes or clears the overdue marker on an organization.

Parameters:
  - context: context.Context
  - id: string
  - since: *time.Time (nil clears the marker)

Returns:
  - error: apperr.NotFound when absent, otherwise persistence failures
*/
func (repository *PostgresOrganizationRepository) SetOverdueSince(context context.Context, id string, since *time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		schema.PortalOrganization.Table,
		schema.PortalOrganization.OverdueSince, schema.PortalOrganization.UpdatedAt,
		schema.PortalOrganization.ID, schema.PortalOrganization.DeletedAt)

	tag, err := repository.pool.Exec(context, query, id, since, time.Now())
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_organization_repo_set_overdue_failed: %w", err), "set overdue marker")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
