package server

import (
	"github.com/inkforge/castline/internal/server/middleware"
	"github.com/inkforge/castline/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.POST("/graph/rebuild", routes.RebuildGraphHandler)

	// Character routes
	apiRoutes.GET("/characters", routes.GetCharactersHandler)

	// Relationship routes
	apiRoutes.GET("/roles/suggestions", routes.GetRoleSuggestionsHandler)
	apiRoutes.POST("/relationships", routes.ResolveRelationshipHandler)
}
