package auth

import (
	"net/http"
	"strings"
	"time"
)

// CookieConfig holds the attribute policy shared by the three auth
// cookies. Names default to the values the frontend expects; Secure
// and SameSite come from configuration so local development over
// plain HTTP stays possible.
type CookieConfig struct {
	AccessName  string // default "access_token"
	RefreshName string // default "refresh_token"
	CSRFName    string // default "XSRF-TOKEN"
	Path        string
	Domain      string
	Secure      bool
	SameSite    http.SameSite
}

// ParseSameSite maps a config string onto http.SameSite, defaulting to Lax.
func ParseSameSite(s string) http.SameSite {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// CookieIssuer builds the attribute sets for the access, refresh and
// CSRF cookies. It is pure policy: callers supply values and expiry
// instants. Deletion cookies reuse the exact attribute set of their
// issuing counterpart (path, domain, SameSite, HttpOnly) so the
// browser matches and clears the right cookie.
type CookieIssuer struct {
	cfg CookieConfig
}

// NewCookieIssuer fills in default cookie names and the default path.
func NewCookieIssuer(cfg CookieConfig) *CookieIssuer {
	if cfg.AccessName == "" {
		cfg.AccessName = "access_token"
	}
	if cfg.RefreshName == "" {
		cfg.RefreshName = "refresh_token"
	}
	if cfg.CSRFName == "" {
		cfg.CSRFName = "XSRF-TOKEN"
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieIssuer{cfg: cfg}
}

// Config returns the effective policy after defaulting.
func (i *CookieIssuer) Config() CookieConfig { return i.cfg }

// Access returns the HTTP-only cookie carrying the access JWT.
func (i *CookieIssuer) Access(value string, expires time.Time) *http.Cookie {
	return i.build(i.cfg.AccessName, value, expires, true)
}

// Refresh returns the HTTP-only cookie carrying the refresh secret.
func (i *CookieIssuer) Refresh(value string, expires time.Time) *http.Cookie {
	return i.build(i.cfg.RefreshName, value, expires, true)
}

// CSRF returns the cookie carrying the CSRF value. It is NOT HTTP-only:
// the browser script must read it and echo it back in the X-XSRF-TOKEN
// header (double-submit pattern).
func (i *CookieIssuer) CSRF(value string, expires time.Time) *http.Cookie {
	return i.build(i.cfg.CSRFName, value, expires, false)
}

// DeleteAccess returns the deletion counterpart of Access.
func (i *CookieIssuer) DeleteAccess() *http.Cookie {
	return i.delete(i.cfg.AccessName, true)
}

// DeleteRefresh returns the deletion counterpart of Refresh.
func (i *CookieIssuer) DeleteRefresh() *http.Cookie {
	return i.delete(i.cfg.RefreshName, true)
}

// DeleteCSRF returns the deletion counterpart of CSRF.
func (i *CookieIssuer) DeleteCSRF() *http.Cookie {
	return i.delete(i.cfg.CSRFName, false)
}

func (i *CookieIssuer) build(name, value string, expires time.Time, httpOnly bool) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     i.cfg.Path,
		HttpOnly: httpOnly,
		Secure:   i.cfg.Secure,
		SameSite: i.cfg.SameSite,
		Expires:  expires.UTC(),
	}
	if ttl := time.Until(expires); ttl > 0 {
		ck.MaxAge = int(ttl.Seconds())
	}
	if strings.TrimSpace(i.cfg.Domain) != "" {
		ck.Domain = i.cfg.Domain
	}
	return ck
}

func (i *CookieIssuer) delete(name string, httpOnly bool) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     i.cfg.Path,
		HttpOnly: httpOnly,
		Secure:   i.cfg.Secure,
		SameSite: i.cfg.SameSite,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	}
	if strings.TrimSpace(i.cfg.Domain) != "" {
		ck.Domain = i.cfg.Domain
	}
	return ck
}
