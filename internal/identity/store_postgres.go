// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code-nation/client-success-hub/internal/platform/database/schema"
	"github.com/code-nation/client-success-hub/internal/platform/dberr"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// accountColumns is the hydration column list; deletedat is a filter, never
// scanned.
var accountColumns = strings.Join([]string{
	schema.PortalAccount.ID,
	schema.PortalAccount.Email,
	schema.PortalAccount.DisplayName,
	schema.PortalAccount.Phone,
	schema.PortalAccount.OrgID,
	schema.PortalAccount.Roles,
	schema.PortalAccount.CreatedAt,
	schema.PortalAccount.UpdatedAt,
}, ", ")

/*
Create persists a new account record into the portal.account table.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.PortalAccount.Table, accountColumns)

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Email,
		account.DisplayName,
		account.Phone,
		account.OrgID,
		account.Roles,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_create_failed: %w", err), "create account")
	}

	return nil
}

/*
FindByID retrieves an account record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		accountColumns, schema.PortalAccount.Table,
		schema.PortalAccount.ID, schema.PortalAccount.DeletedAt)

	return repository.scanOne(context, query, id)
}

/*
FindByEmail retrieves an account record by its unique email address.

Description: Performs a lookup on the account table, filtering out
soft-deleted accounts.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		accountColumns, schema.PortalAccount.Table,
		schema.PortalAccount.Email, schema.PortalAccount.DeletedAt)

	return repository.scanOne(context, query, email)
}

/*
UpdateProfile persists the mutable profile fields only.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: Persistence failures
*/
func (repository *PostgresAccountRepository) UpdateProfile(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1 AND %s IS NULL`,
		schema.PortalAccount.Table,
		schema.PortalAccount.DisplayName, schema.PortalAccount.Phone, schema.PortalAccount.UpdatedAt,
		schema.PortalAccount.ID, schema.PortalAccount.DeletedAt)

	account.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		account.ID,
		account.DisplayName,
		account.Phone,
		account.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_update_profile_failed: %w", err), "update profile")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
SoftDelete marks the account as deleted without removing the row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2
		WHERE %s = $1 AND %s IS NULL`,
		schema.PortalAccount.Table,
		schema.PortalAccount.DeletedAt,
		schema.PortalAccount.ID, schema.PortalAccount.DeletedAt)

	if _, err := repository.pool.Exec(context, query, id, time.Now()); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err), "soft delete account")
	}

	return nil
}

// scanOne runs a single-row account query and hydrates the entity.
func (repository *PostgresAccountRepository) scanOne(context context.Context, query string, arg any) (*Account, error) {
	account := &Account{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.DisplayName,
		&account.Phone,
		&account.OrgID,
		&account.Roles,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "find account")
	}

	return account, nil
}
