package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/guitar-lab/internal/middleware"
	"github.com/iliyamo/guitar-lab/internal/repository"
)

// EnrollmentHandler serves the guitarist-facing progress surface: which
// lessons the authenticated guitarist takes and how far along each is.
// The guitarist id always comes from the user record RequireRole cached
// in the context, never from the request, so one guitarist cannot touch
// another's enrollments.
type EnrollmentHandler struct {
	Enrollments *repository.EnrollmentRepo
}

func NewEnrollmentHandler(e *repository.EnrollmentRepo) *EnrollmentHandler {
	return &EnrollmentHandler{Enrollments: e}
}

func guitaristID(c echo.Context) (uint64, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok || u.GuitaristID == 0 {
		return 0, false
	}
	return u.GuitaristID, true
}

func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	gid, ok := guitaristID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no guitarist profile"})
	}
	lessonID := pathID(c, "id")
	if lessonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	gl, err := h.Enrollments.Enroll(ctx, gid, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLessonNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "already enrolled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enroll failed"})
		}
	}
	return c.JSON(http.StatusCreated, gl)
}

type progressReq struct {
	ProgressPercent float64 `json:"progress_percent"`
}

func (h *EnrollmentHandler) UpdateProgress(c echo.Context) error {
	gid, ok := guitaristID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no guitarist profile"})
	}
	lessonID := pathID(c, "id")
	if lessonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req progressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProgressPercent < 0 || req.ProgressPercent > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "progress_percent must be 0..100"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Enrollments.UpdateProgress(ctx, gid, lessonID, req.ProgressPercent); err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "enrollment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update progress failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}

func (h *EnrollmentHandler) ListMine(c echo.Context) error {
	gid, ok := guitaristID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no guitarist profile"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Enrollments.ListByGuitarist(ctx, gid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list enrollments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"enrollments": out, "count": len(out)})
}

func (h *EnrollmentHandler) Unenroll(c echo.Context) error {
	gid, ok := guitaristID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no guitarist profile"})
	}
	lessonID := pathID(c, "id")
	if lessonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Enrollments.Unenroll(ctx, gid, lessonID); err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "enrollment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unenroll failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
