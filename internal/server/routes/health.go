package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/server/middleware"
)

func HealthHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	status, storeStatus := "healthy", "ok"
	if _, err := app.Store.Articles(c.Request().Context()); err != nil {
		status, storeStatus = "degraded", "unavailable"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    status,
		"service":   "newslens",
		"store":     storeStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
