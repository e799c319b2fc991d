package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkforge/castline/internal/server/middleware"
)

type characterSummary struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	Surname       string `json:"surname,omitempty"`
	Role          string `json:"role,omitempty"`
	Relationships int    `json:"relationships"`
}

// GetCharactersHandler lists every character in the vault, in stable ID
// order.
func GetCharactersHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	snap, err := app.Current(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	summaries := make([]characterSummary, 0, len(snap.Records))
	for _, record := range snap.Records {
		count := 0
		for _, field := range record.Relationships {
			count += len(field.Targets)
		}
		summaries = append(summaries, characterSummary{
			ID:            record.ID,
			DisplayName:   record.DisplayName,
			Surname:       record.Surname,
			Role:          record.Role,
			Relationships: count,
		})
	}
	return c.JSON(http.StatusOK, summaries)
}
