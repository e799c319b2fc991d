package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/inkforge/castline/internal/server/middleware"
	"github.com/inkforge/castline/pkg/graph"
)

// GetRoleSuggestionsHandler offers inverse-role labels for a role:
// dictionary inverses first, then other roles used in the project that
// match the partial query.
func GetRoleSuggestionsHandler(c echo.Context) error {
	type suggestionsParams struct {
		Role  string `query:"role" validate:"required"`
		Query string `query:"q"`
	}

	params := new(suggestionsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	snap, err := app.Current(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	suggestions := graph.SuggestInverses(app.Dict, snap.Records, params.Role, params.Query, graph.DefaultSuggestionCap)
	return c.JSON(http.StatusOK, map[string]any{
		"role":        params.Role,
		"suggestions": suggestions,
	})
}
