package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

// errNoUser is returned when a handler behind JWTAuth cannot find the
// subject claim in the context.
var errNoUser = errors.New("no authenticated user")

// currentUserID extracts the authenticated user's id stored by the JWTAuth
// middleware.
func currentUserID(c echo.Context) (string, error) {
	v := c.Get("user_id")
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errNoUser
}

// actor returns the authenticated user id as a pointer for audit columns,
// or nil when the request is unauthenticated.
func actor(c echo.Context) *string {
	if id, err := currentUserID(c); err == nil {
		return &id
	}
	return nil
}

// dbCtx bounds a database call to five seconds off the request context.
func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// skipLimit parses the common skip/limit query parameters with defaults and
// an upper bound on limit.
func skipLimit(c echo.Context, defLimit, maxLimit int) (int, int) {
	skip := atoiDefault(c.QueryParam("skip"), 0)
	limit := atoiDefault(c.QueryParam("limit"), defLimit)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}
