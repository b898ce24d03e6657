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

// GuitaristHandler serves guitarist profiles. Profiles are created with
// registration; here they can be browsed and the owner can update their
// own.
type GuitaristHandler struct {
	Guitarists *repository.GuitaristRepo
}

func NewGuitaristHandler(g *repository.GuitaristRepo) *GuitaristHandler {
	return &GuitaristHandler{Guitarists: g}
}

func (h *GuitaristHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Guitarists.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list guitarists failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"guitarists": out, "count": len(out)})
}

func (h *GuitaristHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Guitarists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGuitaristNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guitarist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get guitarist failed"})
	}
	return c.JSON(http.StatusOK, g)
}

type guitaristReq struct {
	Name            string `json:"name"`
	SkillLevel      string `json:"skill_level"`
	ExperienceYears int    `json:"experience_years"`
}

func validSkill(s string) bool {
	switch s {
	case model.SkillBeginner, model.SkillIntermediate, model.SkillAdvanced:
		return true
	}
	return false
}

// UpdateMe updates the authenticated guitarist's own profile.
func (h *GuitaristHandler) UpdateMe(c echo.Context) error {
	gid, ok := guitaristID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no guitarist profile"})
	}
	var req guitaristReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.SkillLevel = strings.ToUpper(strings.TrimSpace(req.SkillLevel))
	if req.Name == "" || !validSkill(req.SkillLevel) || req.ExperienceYears < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid profile fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Guitarists.Update(ctx, gid, req.Name, req.SkillLevel, req.ExperienceYears); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guitarist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update guitarist failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_success": true})
}
