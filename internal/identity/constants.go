// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package identity

import "time"

// # Sign-In Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Short (8 hours) so role changes propagate within a working day
	// without a revocation list.
	AccessTokenTTL = 8 * time.Hour

	// PasscodeTTL is the duration a one-time passcode remains valid.
	// Short-lived (10 minutes): codes travel over email.
	PasscodeTTL = 10 * time.Minute

	// PasscodeDigits is the length of the numeric one-time passcode.
	PasscodeDigits = 6

	// MaxVerifyAttempts bounds guesses against a single issued passcode.
	MaxVerifyAttempts = 5
)
