package handler // handler defines http handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// reqCtx derives a bounded context for database calls from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// parseDate parses the YYYY-MM-DD form dates used across the portal.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}
