// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package entitlement

import (
	"context"
	"net/http"
	gopath "path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/code-nation/client-success-hub/internal/gate"
	"github.com/code-nation/client-success-hub/internal/platform/apperr"
	"github.com/code-nation/client-success-hub/internal/platform/constants"
	"github.com/code-nation/client-success-hub/internal/platform/ctxutil"
	requestutil "github.com/code-nation/client-success-hub/internal/platform/request"
	"github.com/code-nation/client-success-hub/internal/platform/respond"
	"github.com/code-nation/client-success-hub/internal/platform/sec"
	"github.com/code-nation/client-success-hub/pkg/convert"
)

// # Collaborator Contracts

// SessionSource resolves verified claims into the session snapshot the gate
// consumes. Implemented by the identity service.
type SessionSource interface {
	Snapshot(context context.Context, claims *sec.AuthClaims) gate.Session
}

// StandingSource resolves an organization into the billing input the gate
// consumes. Implemented by the billing service.
type StandingSource interface {
	StandingInput(context context.Context, organizationID string) gate.BillingInput
}

// # Definitions & Constructors

// Handler serves entitlement decisions to the portal shell.
type Handler struct {
	routeTable     *Table
	sessionSource  SessionSource
	standingSource StandingSource
}

// NewHandler constructs a new [Handler] with its collaborators.
func NewHandler(table *Table, sessions SessionSource, standings StandingSource) *Handler {
	return &Handler{
		routeTable:     table,
		sessionSource:  sessions,
		standingSource: standings,
	}
}

// Routes returns a [chi.Router] configured with entitlement routes.
//
// # Endpoints
//   - GET /decision?path= : The decision for one screen transition.
//
// The endpoint is public: an anonymous caller's decision is "redirect to
// login", which is an answer, not an error.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/decision", handler.decision)
	return router
}

// decisionResponse pairs the decision with the path it was made for, so the
// shell can discard answers from stale navigations.
type decisionResponse struct {
	Path     string        `json:"path"`
	Decision gate.Decision `json:"decision"`
}

/*
decision evaluates the entitlement gate for one screen transition.

Description: The shell signals an in-flight identity fetch with the
X-Identity-Loading header; while it is set the decision is Wait, never a
premature redirect. The preview flag is read from the request context where
the preview middleware put it — this handler cannot activate a bypass on
its own.

GET /api/v1/entitlement/decision?path=/support/tickets/42

Response:
  - 200: decisionResponse
  - 400: ValidationError: Missing or malformed path
*/
func (handler *Handler) decision(writer http.ResponseWriter, request *http.Request) {
	rawPath := request.URL.Query().Get("path")
	if rawPath == "" || !strings.HasPrefix(rawPath, "/") {
		respond.Error(writer, request, apperr.ValidationError("Query parameter 'path' must be an absolute screen path"))
		return
	}
	screenPath := gopath.Clean(rawPath)

	// ── 1. Assemble the session snapshot ─────────────────────────────────
	claims := requestutil.Claims(request)
	session := handler.sessionSource.Snapshot(request.Context(), claims)
	if convert.ToBool(request.Header.Get(constants.IdentityLoadingHeader)) {
		session.Loading = true
	}

	// ── 2. Resolve the screen's requirement ──────────────────────────────
	route, _ := handler.routeTable.Lookup(screenPath)
	if route.Public {
		// Public screens sit outside the gate; they render for anyone.
		respond.OK(writer, decisionResponse{
			Path:     screenPath,
			Decision: gate.Decision{Kind: gate.DecisionRender},
		})
		return
	}

	// ── 3. Fetch the billing marker ──────────────────────────────────────
	organizationID := ""
	if claims != nil {
		organizationID = claims.OrgID
	}
	billingInput := handler.standingSource.StandingInput(request.Context(), organizationID)

	// ── 4. Evaluate ──────────────────────────────────────────────────────
	decision := gate.Evaluate(gate.GuardInput{
		BypassActive:  ctxutil.IsPreview(request.Context()),
		Session:       session,
		RequiredRoles: route.Required,
	}, billingInput, time.Now())

	respond.OK(writer, decisionResponse{Path: screenPath, Decision: decision})
}
