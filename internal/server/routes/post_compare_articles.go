package routes

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/pipeline"
	"github.com/worawit/newslens/internal/server/middleware"
)

// CompareArticlesHandler returns a persisted comparison of two
// articles, addressed either by stored article ID or by URL. The URL
// form fetches and processes both pages first; unlike batch analysis,
// either URL failing fails the request.
func CompareArticlesHandler(c echo.Context) error {
	type compareParams struct {
		ArticleID1 string `json:"article_id_1"`
		ArticleID2 string `json:"article_id_2"`
		URL1       string `json:"url1"`
		URL2       string `json:"url2"`
	}

	params := new(compareParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	if params.ArticleID1 != "" || params.ArticleID2 != "" {
		if params.ArticleID1 == "" || params.ArticleID2 == "" {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "article_id_1 and article_id_2 are required"})
		}
		cmp, err := app.Pipeline.CompareArticles(ctx, params.ArticleID1, params.ArticleID2)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return c.JSON(http.StatusNotFound, errorResponse{Error: "one or both articles not found"})
			}
			log.Error("comparison failed", "err", err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		}
		return c.JSON(http.StatusOK, cmp)
	}

	if params.URL1 == "" || params.URL2 == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "either article IDs or url1 and url2 are required"})
	}

	cmp, err := app.Pipeline.CompareURLs(ctx, params.URL1, params.URL2)
	if err != nil {
		var fetchErr *model.FetchError
		var procErr *model.ProcessingError
		switch {
		case errors.As(err, &fetchErr), errors.As(err, &procErr), errors.Is(err, pipeline.ErrNoArticles):
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		}
		log.Error("comparison failed", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	return c.JSON(http.StatusOK, cmp)
}
