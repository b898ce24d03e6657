package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/guitar-lab/internal/auth"
)

// stubTokens records calls so tests can assert the handler never
// reaches the token service when transport-level checks fail.
type stubTokens struct {
	generateCalls int
	refreshCalls  int
	revokeCalls   int

	generateErr error
	refreshErr  error
	revokeErr   error
}

func (s *stubTokens) GenerateTokens(_ context.Context, _, _ string) (auth.AccessToken, auth.RefreshSecret, string, error) {
	s.generateCalls++
	if s.generateErr != nil {
		return auth.AccessToken{}, auth.RefreshSecret{}, "", s.generateErr
	}
	exp := time.Now().Add(time.Hour)
	return auth.AccessToken{Token: "new-access", Exp: exp},
		auth.RefreshSecret{Plain: "new-refresh", Exp: exp.Add(24 * time.Hour)},
		"new-csrf", nil
}

func (s *stubTokens) Refresh(_ context.Context, _, _ string) (auth.AccessToken, auth.RefreshSecret, error) {
	s.refreshCalls++
	if s.refreshErr != nil {
		return auth.AccessToken{}, auth.RefreshSecret{}, s.refreshErr
	}
	exp := time.Now().Add(time.Hour)
	return auth.AccessToken{Token: "rotated-access", Exp: exp},
		auth.RefreshSecret{Plain: "rotated-refresh", Exp: exp.Add(24 * time.Hour)}, nil
}

func (s *stubTokens) RevokeRefreshToken(_ context.Context, _ string) error {
	s.revokeCalls++
	return s.revokeErr
}

func newAuthTest() (*stubTokens, *AuthHandler) {
	stub := &stubTokens{}
	issuer := auth.NewCookieIssuer(auth.CookieConfig{SameSite: http.SameSiteLaxMode})
	return stub, NewAuthHandler(stub, issuer, nil, 10)
}

func doRequest(h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if err := h(c); err != nil {
		panic(err)
	}
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginSetsCookieTriple(t *testing.T) {
	stub, h := newAuthTest()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"slash@example.com","password":"sweetchild"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := doRequest(h.Login, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.generateCalls)

	access := cookieByName(rec, "access_token")
	refresh := cookieByName(rec, "refresh_token")
	csrf := cookieByName(rec, "XSRF-TOKEN")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.NotNil(t, csrf)

	assert.Equal(t, "new-access", access.Value)
	assert.Equal(t, "new-refresh", refresh.Value)
	assert.Equal(t, "new-csrf", csrf.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.False(t, csrf.HttpOnly)

	// No token material in the body.
	assert.NotContains(t, rec.Body.String(), "new-access")
	assert.NotContains(t, rec.Body.String(), "new-refresh")
}

func TestLoginBadCredentials(t *testing.T) {
	stub, h := newAuthTest()
	stub.generateErr = auth.ErrUnauthorized

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"slash@example.com","password":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := doRequest(h.Login, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRefreshRequiresRefreshCookie(t *testing.T) {
	stub, h := newAuthTest()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	rec := doRequest(h.Refresh, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, stub.refreshCalls)
}

func TestRefreshRejectsCSRFMismatch(t *testing.T) {
	cases := []struct {
		name   string
		cookie string
		header string
	}{
		{"missing header", "csrf-value", ""},
		{"missing cookie", "", "csrf-value"},
		{"mismatch", "csrf-value", "other-value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub, h := newAuthTest()

			req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
			req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "some-refresh"})
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set("X-XSRF-TOKEN", tc.header)
			}
			rec := doRequest(h.Refresh, req)

			// The gate fires before the token service is consulted.
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Zero(t, stub.refreshCalls)
		})
	}
}

func refreshRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "some-refresh"})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "csrf-value"})
	req.Header.Set("X-XSRF-TOKEN", "csrf-value")
	return req
}

func TestRefreshRotatesCookies(t *testing.T) {
	stub, h := newAuthTest()

	rec := doRequest(h.Refresh, refreshRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.refreshCalls)

	// Delete-then-set: the last Set-Cookie per name wins and carries
	// the rotated value.
	var lastAccess, lastRefresh *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		switch ck.Name {
		case "access_token":
			lastAccess = ck
		case "refresh_token":
			lastRefresh = ck
		}
	}
	require.NotNil(t, lastAccess)
	require.NotNil(t, lastRefresh)
	assert.Equal(t, "rotated-access", lastAccess.Value)
	assert.Equal(t, "rotated-refresh", lastRefresh.Value)
}

func TestRefreshReuseClearsSession(t *testing.T) {
	stub, h := newAuthTest()
	stub.refreshErr = auth.ErrReusedToken

	rec := doRequest(h.Refresh, refreshRequest())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// All three cookies are cleared so the browser drops the session.
	for _, name := range []string{"access_token", "refresh_token", "XSRF-TOKEN"} {
		ck := cookieByName(rec, name)
		require.NotNil(t, ck, name)
		assert.Empty(t, ck.Value)
		assert.Equal(t, -1, ck.MaxAge)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	stub, h := newAuthTest()
	stub.refreshErr = auth.ErrExpiredToken

	rec := doRequest(h.Refresh, refreshRequest())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	stub, h := newAuthTest()

	// Without any session cookie logout still succeeds and clears.
	rec := doRequest(h.Logout, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, stub.revokeCalls)

	// With a cookie the token is revoked.
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "some-refresh"})
	rec = doRequest(h.Logout, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.revokeCalls)

	for _, name := range []string{"access_token", "refresh_token", "XSRF-TOKEN"} {
		ck := cookieByName(rec, name)
		require.NotNil(t, ck, name)
		assert.Equal(t, -1, ck.MaxAge)
	}
}

func TestRevokeTokenRequiresCookie(t *testing.T) {
	stub, h := newAuthTest()

	rec := doRequest(h.RevokeToken, httptest.NewRequest(http.MethodPost, "/v1/auth/revoke-token", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.revokeCalls)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/revoke-token", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "some-refresh"})
	rec = doRequest(h.RevokeToken, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.revokeCalls)
}
