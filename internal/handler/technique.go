// Package handler contains the HTTP layer: request decoding, status
// mapping and response shaping. Business decisions live in internal/auth
// and internal/repository.
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

// TechniqueHandler serves CRUD for techniques (admin) and read-only
// browsing (public).
type TechniqueHandler struct {
	Techniques *repository.TechniqueRepo
}

func NewTechniqueHandler(t *repository.TechniqueRepo) *TechniqueHandler {
	return &TechniqueHandler{Techniques: t}
}

type techniqueReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *TechniqueHandler) Create(c echo.Context) error {
	var req techniqueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := &model.Technique{Name: req.Name, Description: req.Description}
	if err := h.Techniques.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create technique failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TechniqueHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Techniques.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list techniques failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"techniques": out, "count": len(out)})
}

func (h *TechniqueHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Techniques.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTechniqueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "technique not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get technique failed"})
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TechniqueHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req techniqueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Techniques.Update(ctx, id, req.Name, req.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "technique not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update technique failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}

func (h *TechniqueHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Techniques.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "technique not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "technique has lessons"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete technique failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
