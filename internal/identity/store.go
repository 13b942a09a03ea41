// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package identity

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the data access contract for portal accounts.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		Create persists a brand-new portal account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, account *Account) error

	/*
		UpdateProfile persists changes to mutable profile fields
		(display name, phone). Roles and org membership are immutable
		through this path.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, account *Account) error

	/*
		SoftDelete marks the account as deleted without removing the row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	SoftDelete(context context.Context, id string) error
}

// # Volatile Data Access

// PasscodeRepository defines the contract for storing volatile one-time
// passcode hashes between the request and verify steps of sign-in.
type PasscodeRepository interface {

	/*
		Set stores the bcrypt hash of a passcode for an email, resetting
		the attempt counter, for a limited duration.

		Parameters:
		  - context: context.Context
		  - email: string
		  - codeHash: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, email, codeHash string, ttl time.Duration) error

	/*
		Get retrieves the stored passcode hash for an email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - string: Bcrypt hash of the issued passcode
		  - error: apperr.NotFound when absent or expired
	*/
	Get(context context.Context, email string) (string, error)

	/*
		IncrementAttempts bumps and returns the failed-guess counter for
		an email's active passcode.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - int: Attempts used so far, including this one
		  - error: Persistence failures
	*/
	IncrementAttempts(context context.Context, email string) (int, error)

	/*
		Delete removes the passcode after successful use or lockout.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, email string) error
}
