package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/guitar-lab/internal/auth"       // token core
	"github.com/iliyamo/guitar-lab/internal/middleware" // context keys set by JWTAuth
	"github.com/iliyamo/guitar-lab/internal/repository" // DB repositories
)

// csrfHeader is the request header the browser script must echo the
// CSRF cookie into (double-submit pattern).
const csrfHeader = "X-XSRF-TOKEN"

// TokenService is the slice of the token core the auth endpoints use.
// Declared here so handler tests can substitute a fake.
type TokenService interface {
	GenerateTokens(ctx context.Context, email, password string) (auth.AccessToken, auth.RefreshSecret, string, error)
	Refresh(ctx context.Context, refreshPlain, remoteIP string) (auth.AccessToken, auth.RefreshSecret, error)
	RevokeRefreshToken(ctx context.Context, refreshPlain string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Tokens     TokenService
	Cookies    *auth.CookieIssuer
	Users      *repository.UserRepo
	BcryptCost int
}

func NewAuthHandler(t TokenService, ck *auth.CookieIssuer, u *repository.UserRepo, bcryptCost int) *AuthHandler {
	return &AuthHandler{Tokens: t, Cookies: ck, Users: u, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register: create a user plus its guitarist profile. New accounts do
// not get tokens; the client logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, middleware.RoleGuitarist, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": uid, "is_success": true})
}

// Login: verify credentials and deliver the token triple as cookies.
// The response body carries no token material; access and refresh live
// in HTTP-only cookies and the CSRF value in a script-readable one.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, refresh, csrf, err := h.Tokens.GenerateTokens(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	c.SetCookie(h.Cookies.Access(access.Token, access.Exp))
	c.SetCookie(h.Cookies.Refresh(refresh.Plain, refresh.Exp))
	// CSRF cookie lives as long as the refresh cookie it protects.
	c.SetCookie(h.Cookies.CSRF(csrf, refresh.Exp))

	return c.JSON(http.StatusOK, echo.Map{"is_success": true, "message": "login successful"})
}

// Refresh: rotate the refresh token using the refresh cookie. The
// double-submit CSRF check (header must equal the CSRF cookie) happens
// here, before the token service is called; CSRF is transport-layer
// business, not the service's.
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshCookie, err := c.Cookie(h.Cookies.Config().RefreshName)
	if err != nil || strings.TrimSpace(refreshCookie.Value) == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing refresh token"})
	}

	headerVal := c.Request().Header.Get(csrfHeader)
	csrfCookie, err := c.Cookie(h.Cookies.Config().CSRFName)
	if err != nil || headerVal == "" || csrfCookie.Value == "" || csrfCookie.Value != headerVal {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "csrf validation failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, refresh, err := h.Tokens.Refresh(ctx, refreshCookie.Value, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrReusedToken), errors.Is(err, auth.ErrInvalidToken):
			h.clearAuthCookies(c)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		case errors.Is(err, auth.ErrExpiredToken):
			h.clearAuthCookies(c)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "expired refresh token"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
		}
	}

	// Delete the previous cookies with the identical attribute set so
	// the browser matches them, then write the new pair.
	c.SetCookie(h.Cookies.DeleteAccess())
	c.SetCookie(h.Cookies.DeleteRefresh())
	c.SetCookie(h.Cookies.Access(access.Token, access.Exp))
	c.SetCookie(h.Cookies.Refresh(refresh.Plain, refresh.Exp))

	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}

// Logout: revoke the refresh token (when present) and clear all auth
// cookies. Safe to call repeatedly and without a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(h.Cookies.Config().RefreshName); err == nil && ck.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Tokens.RevokeRefreshToken(ctx, ck.Value); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	h.clearAuthCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "session closed"})
}

// RevokeToken: explicit revocation of the current refresh token.
// Unlike Logout it requires the cookie to be present and only clears
// the refresh cookie.
func (h *AuthHandler) RevokeToken(c echo.Context) error {
	ck, err := c.Cookie(h.Cookies.Config().RefreshName)
	if err != nil || strings.TrimSpace(ck.Value) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeRefreshToken(ctx, ck.Value); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	c.SetCookie(h.Cookies.DeleteRefresh())
	return c.JSON(http.StatusOK, echo.Map{"message": "refresh token revoked"})
}

// Me: return the authenticated user's basic information (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"role":         u.Role,
		"guitarist_id": u.GuitaristID,
	})
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	c.SetCookie(h.Cookies.DeleteAccess())
	c.SetCookie(h.Cookies.DeleteRefresh())
	c.SetCookie(h.Cookies.DeleteCSRF())
}
