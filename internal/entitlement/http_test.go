// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package entitlement_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-nation/client-success-hub/internal/entitlement"
	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/internal/platform/constants"
	"github.com/code-nation/client-success-hub/internal/platform/ctxutil"
	"github.com/code-nation/client-success-hub/internal/platform/sec"
)

// # Fakes

type fakeSessionSource struct {
	sessions map[string]gate.Session
}

func (s *fakeSessionSource) Snapshot(_ context.Context, claims *sec.AuthClaims) gate.Session {
	if claims == nil {
		return gate.Anonymous()
	}
	session, ok := s.sessions[claims.UserID]
	if !ok {
		return gate.Anonymous()
	}
	return session
}

type fakeStandingSource struct {
	inputs map[string]gate.BillingInput
}

func (s *fakeStandingSource) StandingInput(_ context.Context, organizationID string) gate.BillingInput {
	return s.inputs[organizationID]
}

// decisionEnvelope unwraps the standard success envelope around a decision.
type decisionEnvelope struct {
	Data struct {
		Path     string        `json:"path"`
		Decision gate.Decision `json:"decision"`
	} `json:"data"`
}

type decisionRequest struct {
	path    string
	claims  *sec.AuthClaims
	loading bool
	preview bool
}

func requestDecision(t *testing.T, handler *entitlement.Handler, input decisionRequest) (int, decisionEnvelope) {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, "/decision?path="+input.path, nil)

	ctx := request.Context()
	if input.claims != nil {
		ctx = ctxutil.WithAuthUser(ctx, input.claims)
	}
	if input.preview {
		ctx = ctxutil.WithPreview(ctx, true)
	}
	request = request.WithContext(ctx)

	if input.loading {
		request.Header.Set(constants.IdentityLoadingHeader, "1")
	}

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)

	var envelope decisionEnvelope
	if recorder.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	}

	return recorder.Code, envelope
}

func newHandler(sessions map[string]gate.Session, inputs map[string]gate.BillingInput) *entitlement.Handler {
	return entitlement.NewHandler(
		entitlement.NewTable(entitlement.DefaultRoutes()),
		&fakeSessionSource{sessions: sessions},
		&fakeStandingSource{inputs: inputs},
	)
}

func supportClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "acc-1", OrgID: "org-1"}
}

func supportSession() gate.Session {
	return gate.Session{
		Present: true,
		Roles:   gate.NewRoleSet(gate.RoleSupport),
	}
}

// # Decision Endpoint

func TestHandlerDecision(t *testing.T) {
	t.Run("anonymous caller is redirected to login", func(t *testing.T) {
		handler := newHandler(nil, nil)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/support"})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionRedirect, envelope.Data.Decision.Kind)
		assert.Equal(t, gate.LoginPath, envelope.Data.Decision.Path)
	})

	t.Run("loading header wins over any redirect", func(t *testing.T) {
		handler := newHandler(nil, nil)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/support", loading: true})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionWait, envelope.Data.Decision.Kind)
	})

	t.Run("matching role renders with current standing", func(t *testing.T) {
		handler := newHandler(
			map[string]gate.Session{"acc-1": supportSession()},
			map[string]gate.BillingInput{"org-1": {}},
		)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/support/tickets/42", claims: supportClaims()})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionRender, envelope.Data.Decision.Kind)
		require.NotNil(t, envelope.Data.Decision.Billing)
		assert.Equal(t, gate.StandingCurrent, envelope.Data.Decision.Billing.Standing)
	})

	t.Run("role mismatch bounces to the primary home", func(t *testing.T) {
		handler := newHandler(
			map[string]gate.Session{"acc-1": supportSession()},
			nil,
		)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/admin", claims: supportClaims()})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionRedirect, envelope.Data.Decision.Kind)
		assert.Equal(t, "/support", envelope.Data.Decision.Path)
	})

	t.Run("suspended standing locks the screen out", func(t *testing.T) {
		overdue := time.Now().AddDate(0, 0, -(gate.GracePeriodDays + 3))
		handler := newHandler(
			map[string]gate.Session{"acc-1": supportSession()},
			map[string]gate.BillingInput{"org-1": {OverdueSince: &overdue}},
		)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/support", claims: supportClaims()})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionLockout, envelope.Data.Decision.Kind)
		require.NotNil(t, envelope.Data.Decision.Billing)
		assert.Equal(t, gate.StandingSuspended, envelope.Data.Decision.Billing.Standing)
	})

	t.Run("grace standing renders with an advisory", func(t *testing.T) {
		overdue := time.Now().AddDate(0, 0, -3)
		handler := newHandler(
			map[string]gate.Session{"acc-1": supportSession()},
			map[string]gate.BillingInput{"org-1": {OverdueSince: &overdue}},
		)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/support", claims: supportClaims()})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionRender, envelope.Data.Decision.Kind)
		assert.True(t, envelope.Data.Decision.Advisory)
	})

	t.Run("billing lookup failure fails open to render", func(t *testing.T) {
		handler := newHandler(
			map[string]gate.Session{"acc-1": supportSession()},
			map[string]gate.BillingInput{"org-1": {LookupFailed: true}},
		)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/support", claims: supportClaims()})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionRender, envelope.Data.Decision.Kind)
	})

	t.Run("preview renders everything, billing included", func(t *testing.T) {
		overdue := time.Now().AddDate(0, 0, -60)
		handler := newHandler(
			nil,
			map[string]gate.BillingInput{"org-1": {OverdueSince: &overdue}},
		)

		// Anonymous, suspended org, wrong everything — preview still renders.
		status, envelope := requestDecision(t, handler, decisionRequest{path: "/admin", preview: true})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionRender, envelope.Data.Decision.Kind)
	})

	t.Run("public screens render for anyone", func(t *testing.T) {
		handler := newHandler(nil, nil)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/login"})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, gate.DecisionRender, envelope.Data.Decision.Kind)
	})

	t.Run("missing path is a validation error", func(t *testing.T) {
		handler := newHandler(nil, nil)

		status, _ := requestDecision(t, handler, decisionRequest{path: ""})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("relative path is a validation error", func(t *testing.T) {
		handler := newHandler(nil, nil)

		status, _ := requestDecision(t, handler, decisionRequest{path: "support"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("response echoes the cleaned path", func(t *testing.T) {
		handler := newHandler(nil, nil)

		status, envelope := requestDecision(t, handler, decisionRequest{path: "/support/../login"})
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, "/login", envelope.Data.Path)
		assert.Equal(t, gate.DecisionRender, envelope.Data.Decision.Kind)
	})
}
