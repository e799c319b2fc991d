package routes

import (
	"context"
	"errors"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/inkforge/castline/internal/server/middleware"
	"github.com/inkforge/castline/internal/vault"
	"github.com/inkforge/castline/pkg/graph"
	"github.com/inkforge/castline/pkg/logger"
)

// ResolveRelationshipHandler resolves the reciprocal of a relationship
// the writer just added. Without an inverse label it tries sibling
// inference and otherwise answers 409 with suggestions; the client picks
// a label and re-POSTs with it, which commits the reciprocal line to the
// target note and teaches the dictionary the pair.
func ResolveRelationshipHandler(c echo.Context) error {
	type resolveBody struct {
		Source  string `json:"source" validate:"required"`
		Target  string `json:"target" validate:"required"`
		Role    string `json:"role" validate:"required"`
		Inverse string `json:"inverse"`
	}

	type resolveResponse struct {
		Message     string   `json:"message,omitempty"`
		Inverse     string   `json:"inverse,omitempty"`
		Inferred    bool     `json:"inferred,omitempty"`
		NeedsInput  bool     `json:"needs_input,omitempty"`
		Suggestions []string `json:"suggestions,omitempty"`
	}

	data := new(resolveBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, resolveResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, resolveResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	snap, err := app.Current(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, resolveResponse{Message: err.Error()})
	}

	ix := graph.NewNameIndex(snap.Records)
	sourceID := ix.Resolve(data.Source)
	targetID := ix.Resolve(data.Target)
	if sourceID == "" || targetID == "" {
		return c.JSON(http.StatusNotFound, resolveResponse{Message: "Unknown character"})
	}

	reciprocal := graph.NewReciprocal(app.Dict, app.Vault, app.Store)

	if data.Inverse == "" {
		inferred, err := reciprocal.Resolve(ctx, snap.Records, sourceID, targetID, data.Role, nil)
		if errors.Is(err, graph.ErrNeedsInput) {
			return c.JSON(http.StatusConflict, resolveResponse{
				NeedsInput:  true,
				Suggestions: graph.SuggestInverses(app.Dict, snap.Records, data.Role, "", graph.DefaultSuggestionCap),
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, resolveResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, resolveResponse{Inverse: inferred, Inferred: true})
	}

	err = app.Locks.WithLock(ctx, targetID, func() error {
		return reciprocal.Commit(ctx, snap.Records, sourceID, targetID, data.Role, data.Inverse)
	})
	if err != nil {
		if errors.Is(err, graph.ErrUnknownCharacter) || errors.Is(err, vault.ErrNotFound) {
			return c.JSON(http.StatusNotFound, resolveResponse{Message: "Unknown character"})
		}
		return c.JSON(http.StatusBadGateway, resolveResponse{Message: err.Error()})
	}

	// The request context dies with the response; the refresh keeps going.
	go func() {
		if _, err := app.Rebuild(context.Background()); err != nil {
			logger.Error("Failed to rebuild graph after relationship write", "err", err)
		}
	}()

	return c.JSON(http.StatusOK, resolveResponse{Inverse: data.Inverse})
}
