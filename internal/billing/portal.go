// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/code-nation/client-success-hub/internal/platform/apperr"
)

// # Billing Portal Client

// PortalLauncher creates a self-service billing portal session for a customer
// and returns the URL the browser should be sent to.
type PortalLauncher interface {
	LaunchPortal(context context.Context, customerID, returnURL string) (string, error)
}

// StripePortalClient implements [PortalLauncher] against the Stripe Billing
// Portal API.
//
// # Scope
//
// This is the only place the platform talks to Stripe directly. Invoicing,
// payment collection, and dunning all happen inside Stripe; the portal only
// needs a session URL to hand the client off.
type StripePortalClient struct {
	client *resty.Client
}

// NewStripePortalClient constructs a Stripe client with sane HTTP defaults.
func NewStripePortalClient(apiBase, secretKey string) *StripePortalClient {
	client := resty.New().
		SetBaseURL(apiBase).
		SetAuthToken(secretKey).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &StripePortalClient{client: client}
}

// portalSessionResponse is the subset of Stripe's session object we consume.
type portalSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

/*
LaunchPortal creates a billing portal session for the given Stripe customer.

Description: Posts to /v1/billing_portal/sessions with form encoding, which
is the encoding the Stripe API expects. Any transport or API failure is
wrapped as a portal launch failure so the handler layer can translate it
into a 502 without inspecting Stripe error shapes.

Parameters:
  - context: context.Context
  - customerID: string (Stripe customer identifier, "cus_...")
  - returnURL: string (where the portal sends the client back afterwards)

Returns:
  - string: Single-use portal session URL
  - error: apperr.PortalLaunchFailed on any failure
*/
func (stripe *StripePortalClient) LaunchPortal(context context.Context, customerID, returnURL string) (string, error) {
	var session portalSessionResponse

	response, err := stripe.client.R().
		SetContext(context).
		SetFormData(map[string]string{
			"customer":   customerID,
			"return_url": returnURL,
		}).
		SetResult(&session).
		Post("/v1/billing_portal/sessions")

	if err != nil {
		return "", apperr.PortalLaunchFailed(fmt.Errorf("stripe_portal_request_failed: %w", err))
	}

	if response.IsError() {
		return "", apperr.PortalLaunchFailed(fmt.Errorf("stripe_portal_status_%d: %s", response.StatusCode(), response.String()))
	}

	if session.URL == "" {
		return "", apperr.PortalLaunchFailed(errors.New("stripe_portal_empty_session_url"))
	}

	return session.URL, nil
}
