package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// pathID parses a numeric path parameter. Zero means absent or invalid;
// valid ids start at 1.
func pathID(c echo.Context, name string) uint64 {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// queryID parses an optional numeric query parameter the same way.
func queryID(c echo.Context, name string) uint64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
