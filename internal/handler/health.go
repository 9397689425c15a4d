package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness and database connectivity. Load
// balancers and monitoring systems poll this endpoint.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := dbCtx(c)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusOK, echo.Map{"status": "unhealthy", "database": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "healthy", "database": "connected"})
	}
}
