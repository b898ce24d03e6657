package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/guitar-lab/internal/model"
	"github.com/iliyamo/guitar-lab/internal/repository"
)

// ExerciseHandler serves CRUD for exercises.
type ExerciseHandler struct {
	Exercises *repository.ExerciseRepo
}

func NewExerciseHandler(e *repository.ExerciseRepo) *ExerciseHandler {
	return &ExerciseHandler{Exercises: e}
}

type exerciseReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  int    `json:"difficulty"` // 1..10
	TuningID    uint64 `json:"tuning_id"`
}

func (r exerciseReq) validate() string {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return "name required"
	case r.Difficulty < 1 || r.Difficulty > 10:
		return "difficulty must be 1..10"
	case r.TuningID == 0:
		return "tuning_id required"
	}
	return ""
}

func (h *ExerciseHandler) Create(c echo.Context) error {
	var req exerciseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e := &model.Exercise{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Difficulty:  req.Difficulty,
		TuningID:    req.TuningID,
	}
	if err := h.Exercises.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrTuningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tuning not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create exercise failed"})
	}
	return c.JSON(http.StatusCreated, e)
}

// List supports an optional ?tuning_id= filter.
func (h *ExerciseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Exercises.List(ctx, queryID(c, "tuning_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list exercises failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"exercises": out, "count": len(out)})
}

func (h *ExerciseHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Exercises.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExerciseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exercise not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get exercise failed"})
	}
	return c.JSON(http.StatusOK, e)
}

func (h *ExerciseHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req exerciseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Exercises.Update(ctx, id, strings.TrimSpace(req.Name), req.Description, req.Difficulty, req.TuningID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exercise not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update exercise failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}

func (h *ExerciseHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Exercises.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exercise not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete exercise failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
