package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/guitar-lab/internal/repository"
)

// UserAdminHandler serves the admin user surface: listing accounts and
// toggling is_active. Deactivation takes effect on the next request
// because role checks read the database, and it blocks future logins.
type UserAdminHandler struct {
	Users *repository.UserRepo
}

func NewUserAdminHandler(u *repository.UserRepo) *UserAdminHandler {
	return &UserAdminHandler{Users: u}
}

func (h *UserAdminHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}

	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"id":           u.ID,
			"username":     u.Username,
			"email":        u.Email,
			"role":         u.Role,
			"guitarist_id": u.GuitaristID,
			"is_active":    u.IsActive,
			"created_at":   u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "count": len(out)})
}

type setActiveReq struct {
	IsActive bool `json:"is_active"`
}

func (h *UserAdminHandler) SetActive(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetActive(ctx, id, req.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}
