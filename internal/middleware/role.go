package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/guitar-lab/internal/model"
	"github.com/iliyamo/guitar-lab/internal/repository"
)

// Role names stored in users.role.
const (
	RoleAdmin     = "ADMIN"
	RoleGuitarist = "GUITARIST"
)

// RequireRole returns a middleware that loads the authenticated user
// and enforces that their role is in the allowed set. The access token
// deliberately carries no role claim, so the check always reflects the
// current database state: demoting or deactivating an account takes
// effect on the next request, not at token expiry. Assumes JWTAuth ran
// earlier and stored the user id in context.
func RequireRole(users *repository.UserRepo, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, uid)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !u.IsActive || !allowed[u.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}

			c.Set(CtxRole, u.Role)
			c.Set(ctxUser, u)
			return next(c)
		}
	}
}

// ctxUser caches the loaded user record for handlers that need more
// than the id (e.g. the guitarist profile reference).
const ctxUser = "user_record"

// CurrentUser returns the user record cached by RequireRole.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(ctxUser).(model.User)
	return u, ok
}
