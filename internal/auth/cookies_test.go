package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *CookieIssuer {
	return NewCookieIssuer(CookieConfig{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func TestCookieDefaults(t *testing.T) {
	cfg := testIssuer().Config()
	assert.Equal(t, "access_token", cfg.AccessName)
	assert.Equal(t, "refresh_token", cfg.RefreshName)
	assert.Equal(t, "XSRF-TOKEN", cfg.CSRFName)
	assert.Equal(t, "/", cfg.Path)
}

func TestTokenCookiesAreHTTPOnly(t *testing.T) {
	i := testIssuer()
	exp := time.Now().Add(time.Hour)

	access := i.Access("jwt-value", exp)
	refresh := i.Refresh("refresh-value", exp)
	csrf := i.CSRF("csrf-value", exp)

	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	// The CSRF cookie must stay readable by the browser script so it
	// can be echoed into the X-XSRF-TOKEN header.
	assert.False(t, csrf.HttpOnly)

	for _, ck := range []*http.Cookie{access, refresh, csrf} {
		assert.True(t, ck.Secure)
		assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
		assert.Equal(t, "/", ck.Path)
		assert.Positive(t, ck.MaxAge)
	}
}

func TestDeletionCookiesMirrorAttributes(t *testing.T) {
	i := testIssuer()

	pairs := []struct {
		issued *http.Cookie
		del    *http.Cookie
	}{
		{i.Access("v", time.Now().Add(time.Hour)), i.DeleteAccess()},
		{i.Refresh("v", time.Now().Add(time.Hour)), i.DeleteRefresh()},
		{i.CSRF("v", time.Now().Add(time.Hour)), i.DeleteCSRF()},
	}
	for _, p := range pairs {
		// Identical matching attributes, otherwise the browser keeps
		// the original cookie alive.
		require.Equal(t, p.issued.Name, p.del.Name)
		assert.Equal(t, p.issued.Path, p.del.Path)
		assert.Equal(t, p.issued.Domain, p.del.Domain)
		assert.Equal(t, p.issued.HttpOnly, p.del.HttpOnly)
		assert.Equal(t, p.issued.SameSite, p.del.SameSite)

		assert.Empty(t, p.del.Value)
		assert.Equal(t, -1, p.del.MaxAge)
		assert.Equal(t, time.Unix(0, 0).UTC(), p.del.Expires)
	}
}

func TestCookieDomainApplied(t *testing.T) {
	i := NewCookieIssuer(CookieConfig{Domain: "lab.example.com"})
	ck := i.Access("v", time.Now().Add(time.Hour))
	assert.Equal(t, "lab.example.com", ck.Domain)
	assert.Equal(t, "lab.example.com", i.DeleteAccess().Domain)
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, ParseSameSite("strict"))
	assert.Equal(t, http.SameSiteNoneMode, ParseSameSite("None"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite("lax"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite(""))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite("bogus"))
}
