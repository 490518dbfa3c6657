package routes

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/server/middleware"
)

const defaultPerPage = 10

// GetArticlesHandler lists stored articles newest first, paginated via
// ?page= and ?per_page=.
func GetArticlesHandler(c echo.Context) error {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", defaultPerPage)
	if page < 1 || perPage < 1 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "page and per_page must be positive"})
	}
	if perPage > 100 {
		perPage = 100
	}

	app := c.(*middleware.AppContext).App
	articles, err := app.Store.Articles(c.Request().Context())
	if err != nil {
		log.Error("list articles failed", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	total := len(articles)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	pageItems := articles[start:end]
	if pageItems == nil {
		pageItems = []*model.Article{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"articles": pageItems,
		"pagination": map[string]any{
			"page":     page,
			"per_page": perPage,
			"total":    total,
			"pages":    (total + perPage - 1) / perPage,
		},
	})
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
