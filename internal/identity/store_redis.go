// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package identity

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/code-nation/client-success-hub/internal/platform/apperr"
	"github.com/code-nation/client-success-hub/internal/platform/constants"
)

// RedisPasscodeRepository implements PasscodeRepository using Redis.
//
// # Key Layout
//
// identity:passcode:<email>           → bcrypt hash of the active code
// identity:passcode:<email>:attempts  → failed-guess counter, same TTL
type RedisPasscodeRepository struct {
	client *redis.Client
}

// NewPasscodeRepository creates a new Redis-backed PasscodeRepository.
func NewPasscodeRepository(client *redis.Client) *RedisPasscodeRepository {
	return &RedisPasscodeRepository{client: client}
}

func passcodeKey(email string) string {
	return constants.RedisPrefixPasscode + email
}

func attemptsKey(email string) string {
	return passcodeKey(email) + ":attempts"
}

/*
Set stores a passcode hash with its TTL and resets the attempt counter.

Parameters:
  - context: context.Context
  - email: string
  - codeHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisPasscodeRepository) Set(context context.Context, email, codeHash string, ttl time.Duration) error {
	pipe := repository.client.TxPipeline()
	pipe.Set(context, passcodeKey(email), codeHash, ttl)
	pipe.Del(context, attemptsKey(email))

	if _, err := pipe.Exec(context); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

/*
Get retrieves the passcode hash for an email.

Description: Returns apperr.NotFound if no code is active or it expired.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Bcrypt hash of the issued passcode
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisPasscodeRepository) Get(context context.Context, email string) (string, error) {
	codeHash, err := repository.client.Get(context, passcodeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Passcode")
		}
		return "", apperr.Internal(err)
	}

	return codeHash, nil
}

/*
IncrementAttempts bumps the failed-guess counter for an email.

Description: The counter inherits the passcode TTL so it cannot outlive the
code it guards.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - int: Attempts used so far
  - error: Execution errors
*/
func (repository *RedisPasscodeRepository) IncrementAttempts(context context.Context, email string) (int, error) {
	attempts, err := repository.client.Incr(context, attemptsKey(email)).Result()
	if err != nil {
		return 0, apperr.Internal(err)
	}

	// Align the counter's lifetime with the passcode on first use.
	if attempts == 1 {
		_ = repository.client.Expire(context, attemptsKey(email), PasscodeTTL).Err()
	}

	return int(attempts), nil
}

/*
Delete removes the passcode and its attempt counter.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Execution errors
*/
func (repository *RedisPasscodeRepository) Delete(context context.Context, email string) error {
	if err := repository.client.Del(context, passcodeKey(email), attemptsKey(email)).Err(); err != nil {
		return apperr.Internal(err)
	}

	return nil
}
