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

// LessonHandler serves CRUD for lessons plus the exercise attachments
// that make up a lesson's content.
type LessonHandler struct {
	Lessons   *repository.LessonRepo
	Exercises *repository.LessonExerciseRepo
}

func NewLessonHandler(l *repository.LessonRepo, le *repository.LessonExerciseRepo) *LessonHandler {
	return &LessonHandler{Lessons: l, Exercises: le}
}

type lessonReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TechniqueID uint64 `json:"technique_id"`
}

func (h *LessonHandler) Create(c echo.Context) error {
	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.TechniqueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/technique_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l := &model.Lesson{Name: req.Name, Description: req.Description, TechniqueID: req.TechniqueID}
	if err := h.Lessons.Create(ctx, l); err != nil {
		if errors.Is(err, repository.ErrTechniqueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "technique not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lesson failed"})
	}
	return c.JSON(http.StatusCreated, l)
}

// List supports an optional ?technique_id= filter.
func (h *LessonHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Lessons.List(ctx, queryID(c, "technique_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list lessons failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lessons": out, "count": len(out)})
}

func (h *LessonHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get lesson failed"})
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LessonHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.TechniqueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/technique_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lessons.Update(ctx, id, req.Name, req.Description, req.TechniqueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update lesson failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}

func (h *LessonHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lessons.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete lesson failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- exercise attachments -----

type attachReq struct {
	ExerciseID uint64 `json:"exercise_id"`
}

func (h *LessonHandler) AttachExercise(c echo.Context) error {
	lessonID := pathID(c, "id")
	if lessonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req attachReq
	if err := c.Bind(&req); err != nil || req.ExerciseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exercise_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Exercises.Attach(ctx, lessonID, req.ExerciseID); err != nil {
		switch {
		case errors.Is(err, repository.ErrLessonNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		case errors.Is(err, repository.ErrExerciseNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exercise not found"})
		case errors.Is(err, repository.ErrAlreadyAttached):
			return c.JSON(http.StatusConflict, echo.Map{"error": "exercise already attached"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attach exercise failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"is_success": true})
}

func (h *LessonHandler) DetachExercise(c echo.Context) error {
	lessonID := pathID(c, "id")
	exerciseID := pathID(c, "exercise_id")
	if lessonID == 0 || exerciseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Exercises.Detach(ctx, lessonID, exerciseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attachment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "detach exercise failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LessonHandler) ListExercises(c echo.Context) error {
	lessonID := pathID(c, "id")
	if lessonID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Exercises.ListByLesson(ctx, lessonID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list exercises failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"exercises": out, "count": len(out)})
}
