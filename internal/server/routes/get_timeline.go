package routes

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/server/middleware"
)

// GetTimelineHandler returns the timeline of a stored analysis.
func GetTimelineHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "analysis id is required"})
	}

	app := c.(*middleware.AppContext).App
	analysis, err := app.Store.Analysis(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "analysis not found"})
		}
		log.Error("load analysis failed", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"analysis_id": analysis.ID,
		"timeline":    analysis.Timeline,
		"created_at":  analysis.CreatedAt,
	})
}
