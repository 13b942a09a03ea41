// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package identity_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-nation/client-success-hub/internal/identity"
	"github.com/code-nation/client-success-hub/internal/platform/ctxutil"
	"github.com/code-nation/client-success-hub/internal/platform/sec"
)

func newIdentityHandler(accounts *fakeAccountRepository) *identity.Handler {
	service := identity.NewService(accounts, newFakePasscodeRepository(), &fakeTokenProvider{}, &fakeCodeSender{})
	return identity.NewHandler(service)
}

// authedRequest builds a request carrying claims for the given role tags.
func authedRequest(t *testing.T, method, target string, roles []string, body io.Reader) *http.Request {
	t.Helper()
	request := httptest.NewRequest(method, target, body)
	ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{
		UserID: "caller-1",
		Roles:  roles,
	})
	return request.WithContext(ctx)
}

func TestHandlerCreateAccount(t *testing.T) {
	payload := `{"email":"riley@acme.test","display_name":"Riley","org_id":"org-1","roles":["client"]}`

	t.Run("ops provisions an account", func(t *testing.T) {
		accounts := newFakeAccountRepository()
		handler := newIdentityHandler(accounts)

		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, authedRequest(t, http.MethodPost, "/accounts", []string{"ops"}, strings.NewReader(payload)))

		require.Equal(t, http.StatusCreated, recorder.Code)
		require.NotNil(t, accounts.byEmail["riley@acme.test"])
		assert.Equal(t, []string{"client"}, accounts.byEmail["riley@acme.test"].Roles)
	})

	t.Run("non-ops staff are forbidden", func(t *testing.T) {
		handler := newIdentityHandler(newFakeAccountRepository())

		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, authedRequest(t, http.MethodPost, "/accounts", []string{"admin"}, strings.NewReader(payload)))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("anonymous callers are unauthorized", func(t *testing.T) {
		handler := newIdentityHandler(newFakeAccountRepository())

		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(payload)))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown role tag is rejected", func(t *testing.T) {
		handler := newIdentityHandler(newFakeAccountRepository())

		body := strings.NewReader(`{"email":"riley@acme.test","display_name":"Riley","roles":["root"]}`)
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, authedRequest(t, http.MethodPost, "/accounts", []string{"ops"}, body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing email is rejected", func(t *testing.T) {
		handler := newIdentityHandler(newFakeAccountRepository())

		body := strings.NewReader(`{"display_name":"Riley"}`)
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, authedRequest(t, http.MethodPost, "/accounts", []string{"ops"}, body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestHandlerDeactivateAccount(t *testing.T) {
	t.Run("ops offboards an account", func(t *testing.T) {
		accounts := newFakeAccountRepository(testAccount())
		handler := newIdentityHandler(accounts)

		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, authedRequest(t, http.MethodDelete, "/accounts/acc-1", []string{"ops"}, nil))

		require.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Nil(t, accounts.byID["acc-1"])
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		handler := newIdentityHandler(newFakeAccountRepository())

		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, authedRequest(t, http.MethodDelete, "/accounts/ghost", []string{"ops"}, nil))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
