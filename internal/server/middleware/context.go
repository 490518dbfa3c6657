package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/pipeline"
	"github.com/worawit/newslens/internal/store"
)

// App bundles the dependencies handlers need.
type App struct {
	Config   *model.Config
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

// AppContext wraps the request context with application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the App to every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{Context: c, App: app})
		}
	}
}
