package server

import (
	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/server/routes"
)

// RegisterRoutes mounts the API surface.
func RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/health", routes.HealthHandler)

	api.POST("/analyze-news", routes.AnalyzeNewsHandler)
	api.POST("/compare-articles", routes.CompareArticlesHandler)

	api.GET("/timeline/:id", routes.GetTimelineHandler)
	api.GET("/similarity/:id", routes.GetSimilarityHandler)
	api.GET("/articles", routes.GetArticlesHandler)
}
