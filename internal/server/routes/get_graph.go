package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkforge/castline/internal/server/middleware"
)

// GetGraphHandler returns the current relationship graph, building it on
// first access.
func GetGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	snap, err := app.Current(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, snap.Graph)
}

// RebuildGraphHandler forces a fresh vault scan and graph build.
func RebuildGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	snap, err := app.Rebuild(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, snap.Graph)
}
