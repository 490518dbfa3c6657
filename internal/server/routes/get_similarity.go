package routes

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/server/middleware"
)

// GetSimilarityHandler returns a stored comparison.
func GetSimilarityHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "comparison id is required"})
	}

	app := c.(*middleware.AppContext).App
	cmp, err := app.Store.Comparison(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "comparison not found"})
		}
		log.Error("load comparison failed", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	return c.JSON(http.StatusOK, cmp)
}
