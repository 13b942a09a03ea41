// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-nation/client-success-hub/internal/billing"
	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/internal/platform/apperr"
	"github.com/code-nation/client-success-hub/pkg/pagination"
	"github.com/code-nation/client-success-hub/pkg/pointer"
)

// # Fakes

type fakeOrganizationRepository struct {
	organizations map[string]*billing.Organization
	findErr       error
	setErr        error
}

func newFakeOrganizationRepository(organizations ...*billing.Organization) *fakeOrganizationRepository {
	repo := &fakeOrganizationRepository{organizations: map[string]*billing.Organization{}}
	for _, organization := range organizations {
		repo.organizations[organization.ID] = organization
	}
	return repo
}

func (r *fakeOrganizationRepository) List(_ context.Context, limit, offset int) ([]*billing.Organization, int, error) {
	if r.findErr != nil {
		return nil, 0, r.findErr
	}
	all := make([]*billing.Organization, 0, len(r.organizations))
	for _, organization := range r.organizations {
		all = append(all, organization)
	}
	if offset >= len(all) {
		return nil, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (r *fakeOrganizationRepository) FindByID(_ context.Context, id string) (*billing.Organization, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	organization, ok := r.organizations[id]
	if !ok {
		return nil, apperr.NotFound("Organization")
	}
	copied := *organization
	return &copied, nil
}

func (r *fakeOrganizationRepository) Create(_ context.Context, organization *billing.Organization) error {
	for _, existing := range r.organizations {
		if existing.Slug == organization.Slug {
			return apperr.Conflict("A record with these values already exists")
		}
	}
	r.organizations[organization.ID] = organization
	return nil
}

func (r *fakeOrganizationRepository) SetOverdueSince(_ context.Context, id string, since *time.Time) error {
	if r.setErr != nil {
		return r.setErr
	}
	organization, ok := r.organizations[id]
	if !ok {
		return apperr.NotFound("Organization")
	}
	organization.OverdueSince = since
	return nil
}

type fakePortalLauncher struct {
	lastCustomer string
	lastReturn   string
	failWith     error
}

func (l *fakePortalLauncher) LaunchPortal(_ context.Context, customerID, returnURL string) (string, error) {
	if l.failWith != nil {
		return "", l.failWith
	}
	l.lastCustomer = customerID
	l.lastReturn = returnURL
	return "https://billing.stripe.test/session/bps_123", nil
}

func testOrganization() *billing.Organization {
	return &billing.Organization{
		ID:               "org-1",
		Name:             "Acme Industries",
		Slug:             "acme-industries",
		StripeCustomerID: pointer.To("cus_abc"),
	}
}

const portalReturnURL = "https://portal.code-nation.dev/billing"

func newService(repo *fakeOrganizationRepository, launcher *fakePortalLauncher) *billing.Service {
	if launcher == nil {
		launcher = &fakePortalLauncher{}
	}
	return billing.NewService(repo, launcher, portalReturnURL)
}

// # Organization Ledger

func TestServiceCreateOrganization(t *testing.T) {
	t.Run("generates id and slug", func(t *testing.T) {
		service := newService(newFakeOrganizationRepository(), nil)

		organization, err := service.CreateOrganization(context.Background(), billing.CreateOrganizationInput{
			Name: "Crème & Brûlée GmbH",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, organization.ID)
		assert.Equal(t, "creme-brulee-gmbh", organization.Slug)
		assert.Nil(t, organization.OverdueSince, "new organizations start current")
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		service := newService(newFakeOrganizationRepository(testOrganization()), nil)

		_, err := service.CreateOrganization(context.Background(), billing.CreateOrganizationInput{
			Name: "Acme Industries",
		})
		require.Error(t, err)
		assert.Equal(t, 409, apperr.As(err).HTTPStatus)
	})
}

func TestServiceList(t *testing.T) {
	repo := newFakeOrganizationRepository(testOrganization())
	service := newService(repo, nil)

	organizations, meta, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, organizations, 1)
	assert.Equal(t, 1, meta.Total)
	assert.Equal(t, 1, meta.TotalPages)
}

// # Billing Standing

func TestServiceStanding(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("settled balance is current", func(t *testing.T) {
		service := newService(newFakeOrganizationRepository(testOrganization()), nil)

		report, err := service.Standing(context.Background(), "org-1", now)
		require.NoError(t, err)
		assert.Equal(t, gate.StandingCurrent, report.Standing)
	})

	t.Run("marker inside the grace window", func(t *testing.T) {
		organization := testOrganization()
		organization.OverdueSince = pointer.To(now.AddDate(0, 0, -3))
		service := newService(newFakeOrganizationRepository(organization), nil)

		report, err := service.Standing(context.Background(), "org-1", now)
		require.NoError(t, err)
		assert.Equal(t, gate.StandingGrace, report.Standing)
		assert.Equal(t, 3, report.DaysOverdue)
	})

	t.Run("unknown organization surfaces not found", func(t *testing.T) {
		service := newService(newFakeOrganizationRepository(), nil)

		_, err := service.Standing(context.Background(), "ghost", now)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("retrieval failure surfaces as lookup failure", func(t *testing.T) {
		repo := newFakeOrganizationRepository(testOrganization())
		repo.findErr = errors.New("pool exhausted")
		service := newService(repo, nil)

		_, err := service.Standing(context.Background(), "org-1", now)
		require.Error(t, err)
		assert.Equal(t, 503, apperr.As(err).HTTPStatus)
	})
}

func TestServiceStandingInput(t *testing.T) {
	t.Run("no organization means current", func(t *testing.T) {
		service := newService(newFakeOrganizationRepository(), nil)

		input := service.StandingInput(context.Background(), "")
		assert.Nil(t, input.OverdueSince)
		assert.False(t, input.LookupFailed)
	})

	t.Run("unknown organization carries no marker", func(t *testing.T) {
		service := newService(newFakeOrganizationRepository(), nil)

		input := service.StandingInput(context.Background(), "ghost")
		assert.Nil(t, input.OverdueSince)
		assert.False(t, input.LookupFailed)
	})

	t.Run("marker passes through", func(t *testing.T) {
		organization := testOrganization()
		marker := time.Now().AddDate(0, 0, -5)
		organization.OverdueSince = &marker
		service := newService(newFakeOrganizationRepository(organization), nil)

		input := service.StandingInput(context.Background(), "org-1")
		require.NotNil(t, input.OverdueSince)
		assert.True(t, input.OverdueSince.Equal(marker))
	})

	t.Run("retrieval failure reports lookup failed, never errors", func(t *testing.T) {
		repo := newFakeOrganizationRepository(testOrganization())
		repo.findErr = errors.New("pool exhausted")
		service := newService(repo, nil)

		input := service.StandingInput(context.Background(), "org-1")
		assert.True(t, input.LookupFailed)
	})
}

// # Overdue Marker Operations

func TestServiceOverdueMarker(t *testing.T) {
	t.Run("mark stamps now when no instant given", func(t *testing.T) {
		repo := newFakeOrganizationRepository(testOrganization())
		service := newService(repo, nil)

		before := time.Now()
		require.NoError(t, service.MarkOverdue(context.Background(), "org-1", nil))

		marker := repo.organizations["org-1"].OverdueSince
		require.NotNil(t, marker)
		assert.False(t, marker.Before(before))
	})

	t.Run("mark honors a backdated instant", func(t *testing.T) {
		repo := newFakeOrganizationRepository(testOrganization())
		service := newService(repo, nil)

		backdated := time.Now().AddDate(0, 0, -10)
		require.NoError(t, service.MarkOverdue(context.Background(), "org-1", &backdated))

		marker := repo.organizations["org-1"].OverdueSince
		require.NotNil(t, marker)
		assert.True(t, marker.Equal(backdated))
	})

	t.Run("clear removes the marker", func(t *testing.T) {
		organization := testOrganization()
		organization.OverdueSince = pointer.To(time.Now())
		repo := newFakeOrganizationRepository(organization)
		service := newService(repo, nil)

		require.NoError(t, service.ClearOverdue(context.Background(), "org-1"))
		assert.Nil(t, repo.organizations["org-1"].OverdueSince)
	})

	t.Run("unknown organization is not found", func(t *testing.T) {
		service := newService(newFakeOrganizationRepository(), nil)

		err := service.MarkOverdue(context.Background(), "ghost", nil)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}

// # Portal Hand-Off

func TestServiceLaunchPortal(t *testing.T) {
	t.Run("hands off to the processor with the configured return url", func(t *testing.T) {
		launcher := &fakePortalLauncher{}
		service := newService(newFakeOrganizationRepository(testOrganization()), launcher)

		url, err := service.LaunchPortal(context.Background(), "org-1")
		require.NoError(t, err)

		assert.Equal(t, "https://billing.stripe.test/session/bps_123", url)
		assert.Equal(t, "cus_abc", launcher.lastCustomer)
		assert.Equal(t, portalReturnURL, launcher.lastReturn)
	})

	t.Run("manually billed organizations have no portal", func(t *testing.T) {
		organization := testOrganization()
		organization.StripeCustomerID = nil
		service := newService(newFakeOrganizationRepository(organization), nil)

		_, err := service.LaunchPortal(context.Background(), "org-1")
		require.Error(t, err)
		assert.Equal(t, 422, apperr.As(err).HTTPStatus)
	})

	t.Run("processor failure passes through", func(t *testing.T) {
		launcher := &fakePortalLauncher{failWith: apperr.PortalLaunchFailed(errors.New("stripe 500"))}
		service := newService(newFakeOrganizationRepository(testOrganization()), launcher)

		_, err := service.LaunchPortal(context.Background(), "org-1")
		require.Error(t, err)
		assert.Equal(t, 502, apperr.As(err).HTTPStatus)
	})
}
