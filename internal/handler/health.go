package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness plus dependency status. Load balancers
// only look at the status code; the body is for humans.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client // optional
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbState := "ok"
	if err := h.DB.PingContext(ctx); err != nil {
		dbState = "down"
		status = http.StatusServiceUnavailable
	}

	redisState := "disabled"
	if h.Redis != nil {
		redisState = "ok"
		// Redis is an accelerator, not a dependency the service dies
		// without, so its state never degrades the status code.
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			redisState = "down"
		}
	}

	return c.JSON(status, echo.Map{"db": dbState, "redis": redisState})
}
