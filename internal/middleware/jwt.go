package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/guitar-lab/internal/auth"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxEmail    = "email"
	CtxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates an access token and
// injects its claims into the request context. The browser flow carries
// the token in the HTTP-only access cookie, so that is checked first; a
// Bearer Authorization header is accepted as the API-client fallback.
// Verification is pure signature+expiry via auth.ParseAccessToken;
// access tokens are never looked up server-side.
func JWTAuth(cfg auth.TokenConfig, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
				raw = ck.Value
			} else if h := c.Request().Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing access token"})
			}

			claims, err := auth.ParseAccessToken(cfg, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxEmail, claims.Email)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id stored by JWTAuth. The
// second return is false on unauthenticated requests.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}
