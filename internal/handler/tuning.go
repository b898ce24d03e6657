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

// TuningHandler serves CRUD for tunings.
type TuningHandler struct {
	Tunings *repository.TuningRepo
}

func NewTuningHandler(t *repository.TuningRepo) *TuningHandler {
	return &TuningHandler{Tunings: t}
}

type tuningReq struct {
	Name  string `json:"name"`
	Notes string `json:"notes"` // low to high, e.g. "EADGBE"
}

func (h *TuningHandler) Create(c echo.Context) error {
	var req tuningReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Notes = strings.ToUpper(strings.TrimSpace(req.Notes))
	if req.Name == "" || req.Notes == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/notes required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := &model.Tuning{Name: req.Name, Notes: req.Notes}
	if err := h.Tunings.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tuning failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TuningHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Tunings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tunings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tunings": out, "count": len(out)})
}

func (h *TuningHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tunings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTuningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tuning not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get tuning failed"})
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TuningHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req tuningReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Notes = strings.ToUpper(strings.TrimSpace(req.Notes))
	if req.Name == "" || req.Notes == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/notes required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tunings.Update(ctx, id, req.Name, req.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tuning not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update tuning failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}

func (h *TuningHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tunings.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tuning not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "tuning has exercises"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete tuning failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
