package routes

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/pipeline"
	"github.com/worawit/newslens/internal/server/middleware"
)

// maxBatchURLs caps one analyze request. Larger batches belong in
// multiple requests; each URL still costs a full fetch and NLP pass.
const maxBatchURLs = 20

type errorResponse struct {
	Error string `json:"error"`
}

// AnalyzeNewsHandler produces a persisted analysis, either by running
// the full pipeline over a URL batch (input_type "url", the default) or
// by building a timeline from already-stored articles inside a date
// range (input_type "date"). Individual URL failures are reported in
// the response; the request fails only when nothing survives.
func AnalyzeNewsHandler(c echo.Context) error {
	type analyzeParams struct {
		InputType string   `json:"input_type"`
		URLs      []string `json:"urls"`
		DateRange struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"date_range"`
	}

	params := new(analyzeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	switch params.InputType {
	case "date":
		analysis, err := app.Pipeline.AnalyzeDateRange(ctx, params.DateRange.Start, params.DateRange.End)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoArticles) {
				return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "no stored articles in date range"})
			}
			log.Error("date-range analysis failed", "err", err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		}
		return c.JSON(http.StatusOK, analysis)

	case "", "url", "urls":
		// URL batch below.
	default:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported input_type"})
	}

	if len(params.URLs) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "urls is required"})
	}
	if len(params.URLs) > maxBatchURLs {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "too many urls, limit is 20"})
	}

	analysis, err := app.Pipeline.AnalyzeURLs(ctx, params.URLs)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoArticles) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"error":    "no articles could be analyzed",
				"failures": analysis.Failures,
			})
		}
		log.Error("analysis failed", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	return c.JSON(http.StatusOK, analysis)
}
