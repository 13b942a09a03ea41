// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/internal/platform/apperr"
	"github.com/code-nation/client-success-hub/internal/platform/ctxutil"
	"github.com/code-nation/client-success-hub/internal/platform/sec"
	"github.com/code-nation/client-success-hub/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given account.
	GenerateAccessToken(userID, email, orgID string, roles []string, timeToLive time.Duration) (string, error)
}

// CodeSender delivers a one-time passcode to its recipient. Notification
// delivery is an external collaborator; the service only needs this one call.
type CodeSender interface {
	SendPasscode(context context.Context, email, code string) error
}

// Service implements the passwordless sign-in and session snapshot use cases.
type Service struct {
	accountRepository  AccountRepository
	passcodeRepository PasscodeRepository
	tokenProvider      TokenProvider
	codeSender         CodeSender
}

// NewService constructs a new identity [Service] with necessary dependencies.
func NewService(
	accountRepo AccountRepository,
	passcodeRepo PasscodeRepository,
	tokenProv TokenProvider,
	sender CodeSender,
) *Service {
	return &Service{
		accountRepository:  accountRepo,
		passcodeRepository: passcodeRepo,
		tokenProvider:      tokenProv,
		codeSender:         sender,
	}
}

// # Sign-In Flow

/*
RequestCode issues a one-time passcode for the given email.

Description: Generates a numeric passcode, stores only its bcrypt hash in
volatile storage, and hands the plain code to the delivery collaborator.
The response is identical whether or not the email maps to an account, to
prevent enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Generation or storage failures only — an unknown email is NOT an error
*/
func (service *Service) RequestCode(context context.Context, email string) error {
	normalized := normalizeEmail(email)

	// Unknown emails get the same silence as known ones. A store outage
	// gets the same response too, but never the same log line: identity
	// being down must show up in telemetry, not hide behind the
	// enumeration-safe reply.
	account, err := service.accountRepository.FindByEmail(context, normalized)
	if err != nil {
		if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus != 404 {
			ctxutil.GetLogger(context).ErrorContext(context, "identity_unavailable",
				slog.String("operation", "request_code"),
				slog.Any("cause", err),
			)
		}
		return nil
	}

	code, err := sec.GenerateNumericCode(PasscodeDigits)
	if err != nil {
		return fmt.Errorf("identity_service_generate_code_failed: %w", err)
	}

	// Only the hash rests in storage; the plain code exists in the email alone.
	codeHash, err := sec.HashPasscode(code)
	if err != nil {
		return fmt.Errorf("identity_service_hash_code_failed: %w", err)
	}

	if err := service.passcodeRepository.Set(context, normalized, codeHash, PasscodeTTL); err != nil {
		return fmt.Errorf("identity_service_store_code_failed: %w", err)
	}

	if err := service.codeSender.SendPasscode(context, account.Email, code); err != nil {
		// Delivery failure is logged, not surfaced: surfacing it would
		// re-open the enumeration channel the generic response closed.
		ctxutil.GetLogger(context).WarnContext(context, "passcode_delivery_failed",
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// AccessSession represents a successfully established portal session.
type AccessSession struct {
	AccessToken string
	ExpiresAt   time.Time
	Account     *Account
}

/*
VerifyCode exchanges a valid one-time passcode for a signed access token.

Description: Performs a constant-time hash comparison, bounds the number of
guesses per issued code, and embeds the account's role tags in the JWT so
the gate can evaluate without a database round-trip.

Parameters:
  - context: context.Context
  - email: string
  - code: string

Returns:
  - *AccessSession: Transport-ready session
  - error: Unauthorized on any mismatch; internal failures otherwise
*/
func (service *Service) VerifyCode(context context.Context, email, code string) (*AccessSession, error) {
	normalized := normalizeEmail(email)

	storedHash, err := service.passcodeRepository.Get(context, normalized)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired passcode")
	}

	if !sec.CheckPasscodeHash(code, storedHash) {
		attempts, incrementErr := service.passcodeRepository.IncrementAttempts(context, normalized)
		if incrementErr == nil && attempts >= MaxVerifyAttempts {
			// Burn the code once the guess budget is spent.
			_ = service.passcodeRepository.Delete(context, normalized)
		}
		return nil, apperr.Unauthorized("Invalid or expired passcode")
	}

	// Single use: a verified code never verifies twice.
	_ = service.passcodeRepository.Delete(context, normalized)

	account, err := service.accountRepository.FindByEmail(context, normalized)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired passcode")
	}

	// Roles pass through the validated RoleSet so corrupt tags never
	// reach a token.
	roles := account.RoleSet().Strings()

	accessToken, err := service.tokenProvider.GenerateAccessToken(account.ID, account.Email, account.OrgID, roles, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_generation_failed: %w", err)
	}

	return &AccessSession{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(AccessTokenTTL),
		Account:     account,
	}, nil
}

// # Session Snapshots

/*
Snapshot resolves the caller's claims into the session snapshot the gate
consumes.

Description: nil claims produce the anonymous snapshot. Valid claims trigger
an account re-fetch so the snapshot reflects current roles and profile, not
the ones frozen into the JWT at sign-in. A storage failure degrades to the
anonymous snapshot — identity unavailable is "no session", never
"authorized" — and is logged under its own code for operational visibility.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (nil when anonymous)

Returns:
  - gate.Session
*/
func (service *Service) Snapshot(context context.Context, claims *sec.AuthClaims) gate.Session {
	if claims == nil {
		return gate.Anonymous()
	}

	account, err := service.accountRepository.FindByID(context, claims.UserID)
	if err != nil {
		identityErr := apperr.IdentityUnavailable(err)
		ctxutil.GetLogger(context).ErrorContext(context, "identity_unavailable",
			slog.String("code", identityErr.Code),
			slog.String("user_id", claims.UserID),
			slog.Any("cause", err),
		)
		return gate.Anonymous()
	}

	return gate.Session{
		Present: true,
		Roles:   account.RoleSet(),
		Profile: account.Profile(),
	}
}

// # Account Provisioning

// CreateAccountInput holds the fields operations staff supply when
// provisioning a portal account.
type CreateAccountInput struct {
	Email       string
	DisplayName string
	Phone       string
	OrgID       string
	Roles       []string
}

/*
CreateAccount provisions a new portal account.

Description: Sign-in is passwordless, so provisioning is the only way an
account comes into existence — there is no self-registration. Role tags are
validated against the closed role set here, at the boundary, and stored in
canonical precedence order; the evaluators downstream never see a corrupt
tag. An empty role set is legal (the account simply fails every guarded
route until roles are granted).

Parameters:
  - context: context.Context
  - input: CreateAccountInput

Returns:
  - *Account: Persisted entity
  - error: apperr.ValidationError on an unknown role tag,
    apperr.Conflict on a duplicate email, otherwise persistence failures
*/
func (service *Service) CreateAccount(context context.Context, input CreateAccountInput) (*Account, error) {
	for _, tag := range input.Roles {
		if !gate.Role(tag).Valid() {
			return nil, apperr.ValidationError(fmt.Sprintf("Unknown role tag '%s'", tag))
		}
	}

	account := &Account{
		ID:          uuid.New(),
		Email:       normalizeEmail(input.Email),
		DisplayName: input.DisplayName,
		Phone:       input.Phone,
		OrgID:       input.OrgID,
		Roles:       gate.ParseRoleSet(input.Roles).Strings(),
	}

	if err := service.accountRepository.Create(context, account); err != nil {
		return nil, err
	}

	return account, nil
}

/*
DeactivateAccount offboards a portal account.

Description: The account row survives as a soft-deleted record for audit
trails, but every live lookup — sign-in, session snapshots, profile reads —
stops seeing it immediately. Outstanding JWTs expire on their own within
[AccessTokenTTL]; the snapshot re-fetch degrades them to anonymous first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) DeactivateAccount(context context.Context, userID string) error {
	return service.accountRepository.SoftDelete(context, userID)
}

// # Profile Management

// ProfileInput holds the mutable profile fields an account may change.
type ProfileInput struct {
	DisplayName string
	Phone       string
}

/*
UpdateProfile applies profile changes for the authenticated account.

Description: The profile record is mutable only through this path — the UI
layer never writes identity state directly.

Parameters:
  - context: context.Context
  - userID: string
  - input: ProfileInput

Returns:
  - *Account: Updated entity
  - error: Retrieval or persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input ProfileInput) (*Account, error) {
	account, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	account.DisplayName = input.DisplayName
	account.Phone = input.Phone

	if err := service.accountRepository.UpdateProfile(context, account); err != nil {
		return nil, fmt.Errorf("identity_service_update_profile_failed: %w", err)
	}

	return account, nil
}

// normalizeEmail lowercases and trims an email for lookup and passcode keys.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
