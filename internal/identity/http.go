// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

/*
HTTP delivery layer for the identity domain.

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Orchestrates passcode exchange and JWT issuance.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/
package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/internal/platform/middleware"
	requestutil "github.com/code-nation/client-success-hub/internal/platform/request"
	"github.com/code-nation/client-success-hub/internal/platform/respond"
	"github.com/code-nation/client-success-hub/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements identity-related HTTP endpoints.
type Handler struct {
	identityService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{identityService: service}
}

// Routes returns a [chi.Router] configured with identity-specific routes.
//
// # Endpoints
//   - POST /request-code : Issues a one-time passcode by email.
//   - POST /verify       : Exchanges a passcode for an access token.
//   - GET  /me           : Returns the session snapshot the UI shell gates on.
//   - PATCH /me          : Updates the caller's profile record.
//   - POST /accounts     : Provisions a portal account (ops).
//   - DELETE /accounts/{id} : Offboards a portal account (ops).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/request-code", handler.requestCode)
	router.Post("/verify", handler.verify)

	// The snapshot endpoint is deliberately public: an anonymous caller
	// receives session_present=false, which is an answer, not an error.
	router.Get("/me", handler.me)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Patch("/me", handler.updateProfile)
	})

	// Operations endpoints — sign-in is passwordless, so provisioning is
	// the only door into the portal.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(gate.RoleOps))
		r.Post("/accounts", handler.createAccount)
		r.Delete("/accounts/{accountID}", handler.deactivateAccount)
	})

	return router
}

// # Request Payloads

type requestCodeRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

type createAccountRequest struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Phone       string   `json:"phone"`
	OrgID       string   `json:"org_id"`
	Roles       []string `json:"roles"`
}

// snapshotResponse is the wire form of the gate's session snapshot.
type snapshotResponse struct {
	SessionPresent bool          `json:"session_present"`
	IsLoading      bool          `json:"is_loading"`
	Roles          []string      `json:"roles"`
	PrimaryRole    string        `json:"primary_role,omitempty"`
	Profile        *gate.Profile `json:"profile,omitempty"`
}

/*
requestCode handles the first half of passwordless sign-in.

POST /api/v1/identity/request-code

Response:
  - 202: Always, whether or not the email maps to an account
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) requestCode(writer http.ResponseWriter, request *http.Request) {
	var input requestCodeRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.RequestCode(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusAccepted, respond.SuccessEnvelope{Data: map[string]string{
		FieldMessage: "If the address is registered, a passcode is on its way",
	}})
}

/*
verify handles the second half of passwordless sign-in.

POST /api/v1/identity/verify

Response:
  - 200: AccessSession: Signed JWT and the account it belongs to
  - 401: Unauthorized: Wrong, expired, or over-guessed passcode
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldCode, input.Code).
		MinLen(FieldCode, input.Code, PasscodeDigits).
		MaxLen(FieldCode, input.Code, PasscodeDigits)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.identityService.VerifyCode(request.Context(), input.Email, input.Code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		"expires_at":     session.ExpiresAt,
		"account":        session.Account,
	})
}

/*
me returns the caller's session snapshot.

GET /api/v1/identity/me

Response:
  - 200: snapshotResponse — anonymous callers get session_present=false
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	snapshot := handler.identityService.Snapshot(request.Context(), requestutil.Claims(request))

	respond.OK(writer, snapshotResponse{
		SessionPresent: snapshot.Present,
		IsLoading:      snapshot.Loading,
		Roles:          snapshot.Roles.Strings(),
		PrimaryRole:    string(snapshot.Primary()),
		Profile:        snapshot.Profile,
	})
}

/*
updateProfile applies profile changes for the authenticated account.

PATCH /api/v1/identity/me

Response:
  - 200: Account: Updated entity
  - 401: Unauthorized
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, 120).
		MaxLen(FieldPhone, input.Phone, 32)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.identityService.UpdateProfile(request.Context(), claims.UserID, ProfileInput{
		DisplayName: input.DisplayName,
		Phone:       input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// # Account Provisioning

/*
createAccount provisions a new portal account.

POST /api/v1/identity/accounts

Response:
  - 201: Account
  - 400: ValidationError: Bad input or an unknown role tag
  - 409: Conflict: Duplicate email
*/
func (handler *Handler) createAccount(writer http.ResponseWriter, request *http.Request) {
	var input createAccountRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, 120).
		MaxLen(FieldPhone, input.Phone, 32)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.identityService.CreateAccount(request.Context(), CreateAccountInput{
		Email:       input.Email,
		DisplayName: input.DisplayName,
		Phone:       input.Phone,
		OrgID:       input.OrgID,
		Roles:       input.Roles,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
deactivateAccount offboards a portal account.

DELETE /api/v1/identity/accounts/{accountID}

Response:
  - 204: No content
  - 404: NotFound
*/
func (handler *Handler) deactivateAccount(writer http.ResponseWriter, request *http.Request) {
	accountID := requestutil.Param(request, "accountID")

	if err := handler.identityService.DeactivateAccount(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
