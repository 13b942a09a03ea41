// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

/*
Package preview decides whether the gate's bypass switch is active for a
request.

# Overview

Preview mode lets developers and QA walk every screen of the portal without
a session and without a billing standing — the entitlement gate renders
unconditionally while it is on. Because that is a complete hole in the gate,
activation is deliberately hard: it requires all three of a non-production
build, an allow-listed host, and a signed activation token. Production
builds refuse preview no matter what the request carries.

# Activation

The token arrives once as a signed "preview" query parameter and is then
persisted in the "hub_preview" cookie so navigation keeps the mode on. The
cookie stores the same signed token and is re-verified on every request, so
a forged cookie activates nothing.
*/
package preview

import (
	"net"
	"net/http"
	"strings"

	"github.com/code-nation/client-success-hub/internal/platform/constants"
	"github.com/code-nation/client-success-hub/internal/platform/ctxutil"
	"github.com/code-nation/client-success-hub/internal/platform/sec"
	"github.com/code-nation/client-success-hub/pkg/slice"
)

// # Detector

// Detector evaluates preview activation for incoming requests.
type Detector struct {
	secret       string
	allowedHosts map[string]struct{}
	production   bool
}

// NewDetector constructs a [Detector].
//
// Parameters:
//   - secret: HMAC key for activation tokens; empty disables preview entirely.
//   - allowedHosts: hostnames (without port) preview may activate on.
//   - production: when true the detector never activates.
func NewDetector(secret string, allowedHosts []string, production bool) *Detector {
	normalized := slice.Map(allowedHosts, func(host string) string {
		return strings.ToLower(strings.TrimSpace(host))
	})

	hosts := make(map[string]struct{}, len(normalized))
	for _, host := range normalized {
		hosts[host] = struct{}{}
	}

	return &Detector{
		secret:       secret,
		allowedHosts: hosts,
		production:   production,
	}
}

// Token returns a signed activation token for the given label.
//
// The label is free-form ("qa-sprint-34") and only exists so tokens can be
// told apart; validity comes from the signature alone.
func Token(secret, label string) string {
	return label + "." + sec.SignMessage(secret, label)
}

// Active reports whether the request carries a valid activation token,
// either freshly via the query parameter or persisted in the cookie.
func (detector *Detector) Active(request *http.Request) bool {

	// ── 1. Production builds never activate ──────────────────────────────
	if detector.production || detector.secret == "" {
		return false
	}

	// ── 2. Host must be allow-listed ─────────────────────────────────────
	if !detector.hostAllowed(request.Host) {
		return false
	}

	// ── 3. Fresh activation via signed query token ───────────────────────
	if token := request.URL.Query().Get(constants.PreviewQueryParam); token != "" && detector.tokenValid(token) {
		return true
	}

	// ── 4. Persisted activation via cookie ───────────────────────────────
	// A stale or tampered query token falls through here rather than
	// vetoing: a dead bookmarked activation link must not drop a
	// still-valid persisted session.
	cookie, err := request.Cookie(constants.PreviewCookieName)
	if err != nil {
		return false
	}

	return detector.tokenValid(cookie.Value)
}

// Middleware attaches the preview flag to the request context and persists
// a fresh query activation into the cookie.
func (detector *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		active := detector.Active(request)

		// Only a query token that verified on its own is persisted;
		// activation inherited from the cookie must never re-persist a
		// stale token riding along in the URL.
		queryToken := request.URL.Query().Get(constants.PreviewQueryParam)
		if active && queryToken != "" && detector.tokenValid(queryToken) {
			http.SetCookie(writer, &http.Cookie{
				Name:     constants.PreviewCookieName,
				Value:    queryToken,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := ctxutil.WithPreview(request.Context(), active)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// tokenValid verifies a "label.signature" activation token.
func (detector *Detector) tokenValid(token string) bool {
	dot := strings.LastIndex(token, ".")
	if dot <= 0 || dot == len(token)-1 {
		return false
	}

	label, signature := token[:dot], token[dot+1:]
	return sec.VerifySignature(detector.secret, label, signature)
}

// hostAllowed checks the request host against the allow-list, ignoring any
// port suffix.
func (detector *Detector) hostAllowed(host string) bool {
	if bare, _, err := net.SplitHostPort(host); err == nil {
		host = bare
	}

	_, ok := detector.allowedHosts[strings.ToLower(host)]
	return ok
}
