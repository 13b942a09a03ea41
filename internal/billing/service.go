// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/internal/platform/apperr"
	"github.com/code-nation/client-success-hub/internal/platform/ctxutil"
	"github.com/code-nation/client-success-hub/pkg/pagination"
	"github.com/code-nation/client-success-hub/pkg/slug"
	"github.com/code-nation/client-success-hub/pkg/uuid"
)

// # Service

// Service implements the organization ledger and billing standing use cases.
type Service struct {
	organizationRepository OrganizationRepository
	portalLauncher         PortalLauncher
	portalReturnURL        string
}

// NewService constructs a new billing [Service] with necessary dependencies.
func NewService(repo OrganizationRepository, launcher PortalLauncher, portalReturnURL string) *Service {
	return &Service{
		organizationRepository: repo,
		portalLauncher:         launcher,
		portalReturnURL:        portalReturnURL,
	}
}

// # Organization Ledger

// CreateOrganizationInput holds the fields needed to register an organization.
type CreateOrganizationInput struct {
	Name             string
	StripeCustomerID *string
}

/*
CreateOrganization registers a new client organization.

Description: Generates the time-ordered ID and the URL slug before handing
the entity to the repository, mirroring how every aggregate in the platform
is created.

Parameters:
  - context: context.Context
  - input: CreateOrganizationInput

Returns:
  - *Organization: Persisted entity
  - error: apperr.Conflict on a duplicate slug, otherwise persistence failures
*/
func (service *Service) CreateOrganization(context context.Context, input CreateOrganizationInput) (*Organization, error) {
	organization := &Organization{
		ID:               uuid.New(),
		Name:             input.Name,
		Slug:             slug.From(input.Name),
		StripeCustomerID: input.StripeCustomerID,
	}

	if err := service.organizationRepository.Create(context, organization); err != nil {
		return nil, err
	}

	return organization, nil
}

/*
List returns one page of organizations with pagination metadata.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Organization: One page of organizations
  - pagination.Meta: Page metadata for the response envelope
  - error: Database retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*Organization, pagination.Meta, error) {
	organizations, total, err := service.organizationRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("billing_service_list_failed: %w", err)
	}

	return organizations, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Get returns the organization with the given ID.
func (service *Service) Get(context context.Context, id string) (*Organization, error) {
	return service.organizationRepository.FindByID(context, id)
}

// # Billing Standing

/*
Standing computes the billing standing report for an organization.

Description: This is the support-staff view of standing; unlike the gate
path, failures here surface as errors so staff see the truth rather than a
fail-open default.

Parameters:
  - context: context.Context
  - organizationID: string
  - now: time.Time

Returns:
  - gate.StandingReport: Standing with overdue-day arithmetic
  - error: apperr.NotFound, or apperr.BillingLookupFailed on retrieval failures
*/
func (service *Service) Standing(context context.Context, organizationID string, now time.Time) (gate.StandingReport, error) {
	organization, err := service.organizationRepository.FindByID(context, organizationID)
	if err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == 404 {
			return gate.StandingReport{}, err
		}
		return gate.StandingReport{}, apperr.BillingLookupFailed(err)
	}

	return gate.StandingOf(organization.OverdueSince, now), nil
}

/*
StandingInput resolves an organization's overdue marker into the billing
input the entitlement gate consumes.

Description: The gate path never fails. A retrieval failure is reported as
LookupFailed, which the gate resolves to a current standing — a billing
outage must not lock paying clients out. An unknown organization carries no
marker and is therefore current.

Parameters:
  - context: context.Context
  - organizationID: string (empty for accounts without an organization)

Returns:
  - gate.BillingInput
*/
func (service *Service) StandingInput(context context.Context, organizationID string) gate.BillingInput {
	if organizationID == "" {
		return gate.BillingInput{}
	}

	organization, err := service.organizationRepository.FindByID(context, organizationID)
	if err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == 404 {
			return gate.BillingInput{}
		}

		ctxutil.GetLogger(context).WarnContext(context, "billing_lookup_failed",
			slog.String("organization_id", organizationID),
			slog.Any("cause", err),
		)
		return gate.BillingInput{LookupFailed: true}
	}

	return gate.BillingInput{OverdueSince: organization.OverdueSince}
}

// # Overdue Marker Operations

/*
MarkOverdue sets the overdue marker on an organization.

Description: Operations staff record the instant a balance became overdue;
standing then derives from elapsed time alone. Passing nil stamps the marker
with the current instant.

Parameters:
  - context: context.Context
  - organizationID: string
  - since: *time.Time (nil means now)

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) MarkOverdue(context context.Context, organizationID string, since *time.Time) error {
	marker := time.Now()
	if since != nil {
		marker = *since
	}

	return service.organizationRepository.SetOverdueSince(context, organizationID, &marker)
}

/*
ClearOverdue removes the overdue marker, restoring a current standing.

Parameters:
  - context: context.Context
  - organizationID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) ClearOverdue(context context.Context, organizationID string) error {
	return service.organizationRepository.SetOverdueSince(context, organizationID, nil)
}

// # Portal Hand-Off

/*
LaunchPortal creates a billing portal session for an organization.

Parameters:
  - context: context.Context
  - organizationID: string

Returns:
  - string: Single-use portal session URL
  - error: apperr.Unprocessable when the organization is billed manually,
    apperr.PortalLaunchFailed on processor failures
*/
func (service *Service) LaunchPortal(context context.Context, organizationID string) (string, error) {
	organization, err := service.organizationRepository.FindByID(context, organizationID)
	if err != nil {
		return "", err
	}

	if organization.StripeCustomerID == nil {
		return "", apperr.Unprocessable("Organization is billed manually and has no self-service portal")
	}

	return service.portalLauncher.LaunchPortal(context, *organization.StripeCustomerID, service.portalReturnURL)
}
