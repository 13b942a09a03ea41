// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package billing

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/internal/platform/apperr"
	"github.com/code-nation/client-success-hub/internal/platform/middleware"
	requestutil "github.com/code-nation/client-success-hub/internal/platform/request"
	"github.com/code-nation/client-success-hub/internal/platform/respond"
	"github.com/code-nation/client-success-hub/internal/platform/validate"
	"github.com/code-nation/client-success-hub/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements billing-related HTTP endpoints.
type Handler struct {
	billingService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{billingService: service}
}

// Routes returns a [chi.Router] configured with billing-specific routes.
//
// # Endpoints
//   - GET    /organizations                 : Paginated ledger (staff only).
//   - POST   /organizations                 : Register an organization (ops).
//   - GET    /organizations/{id}/standing   : Standing report (staff only).
//   - POST   /organizations/{id}/overdue    : Set the overdue marker (ops).
//   - DELETE /organizations/{id}/overdue    : Clear the overdue marker (ops).
//   - POST   /organizations/{id}/portal     : Launch the billing portal.
//
// All routes require authentication; role checks narrow from there.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Staff endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(gate.RoleSupport, gate.RoleAdmin, gate.RoleOps))
		r.Get("/organizations", handler.list)
		r.Get("/organizations/{organizationID}/standing", handler.standing)
	})

	// Operations endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(gate.RoleOps))
		r.Post("/organizations", handler.create)
		r.Post("/organizations/{organizationID}/overdue", handler.markOverdue)
		r.Delete("/organizations/{organizationID}/overdue", handler.clearOverdue)
	})

	// Client-facing endpoint; membership is checked in the handler.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(gate.RoleClient, gate.RoleAdmin, gate.RoleOps))
		r.Post("/organizations/{organizationID}/portal", handler.launchPortal)
	})

	return router
}

// # Request Payloads

type createOrganizationRequest struct {
	Name             string  `json:"name"`
	StripeCustomerID *string `json:"stripe_customer_id"`
}

type markOverdueRequest struct {
	// Since optionally backdates the marker; RFC 3339. Empty means now.
	Since string `json:"since"`
}

/*
list returns one page of the organization ledger.

GET /api/v1/billing/organizations?page=&limit=

Response:
  - 200: []Organization with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	organizations, meta, err := handler.billingService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, organizations, meta)
}

/*
create registers a new client organization.

POST /api/v1/billing/organizations

Response:
  - 201: Organization
  - 409: Conflict: Duplicate slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createOrganizationRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	organization, err := handler.billingService.CreateOrganization(request.Context(), CreateOrganizationInput{
		Name:             input.Name,
		StripeCustomerID: input.StripeCustomerID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, organization)
}

/*
standing reports an organization's billing standing as of now.

GET /api/v1/billing/organizations/{organizationID}/standing

Response:
  - 200: gate.StandingReport
  - 404: NotFound
  - 503: BillingLookupFailed
*/
func (handler *Handler) standing(writer http.ResponseWriter, request *http.Request) {
	organizationID := requestutil.Param(request, "organizationID")

	report, err := handler.billingService.Standing(request.Context(), organizationID, time.Now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}

/*
markOverdue sets the overdue marker on an organization.

The body is optional: omitting it (or the since field) stamps the marker
with the current instant.

POST /api/v1/billing/organizations/{organizationID}/overdue

Response:
  - 200: Confirmation with the marker applied
  - 400: ValidationError: Unparseable timestamp
  - 404: NotFound
*/
func (handler *Handler) markOverdue(writer http.ResponseWriter, request *http.Request) {
	organizationID := requestutil.Param(request, "organizationID")

	var input markOverdueRequest
	if err := requestutil.DecodeJSONOptional(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	var since *time.Time
	if input.Since != "" {
		parsed, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Field 'since' must be RFC 3339"))
			return
		}
		since = &parsed
	}

	if err := handler.billingService.MarkOverdue(request.Context(), organizationID, since); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldOverdueSince: "set"})
}

/*
clearOverdue removes the overdue marker from an organization.

DELETE /api/v1/billing/organizations/{organizationID}/overdue

Response:
  - 200: Confirmation
  - 404: NotFound
*/
func (handler *Handler) clearOverdue(writer http.ResponseWriter, request *http.Request) {
	organizationID := requestutil.Param(request, "organizationID")

	if err := handler.billingService.ClearOverdue(request.Context(), organizationID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldOverdueSince: "cleared"})
}

/*
launchPortal creates a billing portal session and returns its URL.

Description: Clients and admins may only launch the portal for their own
organization; ops staff may launch it for any organization when assisting.

POST /api/v1/billing/organizations/{organizationID}/portal

Response:
  - 200: Portal session URL
  - 403: Forbidden: Caller belongs to a different organization
  - 422: Unprocessable: Organization is billed manually
  - 502: PortalLaunchFailed
*/
func (handler *Handler) launchPortal(writer http.ResponseWriter, request *http.Request) {
	organizationID := requestutil.Param(request, "organizationID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	isOps := gate.ParseRoleSet(claims.Roles).Has(gate.RoleOps)
	if !isOps && claims.OrgID != organizationID {
		respond.Error(writer, request, apperr.Forbidden("You can only manage billing for your own organization"))
		return
	}

	portalURL, err := handler.billingService.LaunchPortal(request.Context(), organizationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldPortalURL: portalURL})
}
