package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mid "github.com/inkforge/castline/internal/server/middleware"
	"github.com/inkforge/castline/internal/store"
	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/internal/vault"
	"github.com/inkforge/castline/pkg/doclock"
	"github.com/inkforge/castline/pkg/graph"
	"github.com/inkforge/castline/pkg/logger"

	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(util.GetEnvString("DATABASE_PATH", "castline.db"))
	if err != nil {
		logger.Fatal("Failed to open database", "err", err)
	}
	defer db.Close()

	dict, err := db.LoadDictionary(ctx)
	if err != nil {
		logger.Fatal("Failed to load inverse dictionary", "err", err)
	}

	vaultDir := util.GetEnv("VAULT_DIR")
	if vaultDir == "" {
		logger.Fatal("VAULT_DIR is required")
	}
	v := vault.New(vaultDir, util.GetEnvInt("VAULT_PARALLEL_PARSE", 4))

	app := &mid.App{
		Vault:        v,
		Store:        db,
		Dict:         dict,
		Builder:      graph.NewBuilder(graph.NewBuilderParams{FamilySynonyms: familySynonymsFromEnv()}),
		Locks:        doclock.New(),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	if _, err := app.Rebuild(ctx); err != nil {
		logger.Fatal("Failed to build initial graph", "err", err)
	}

	debounce := time.Duration(util.GetEnvInt("WATCH_DEBOUNCE_MS", 400)) * time.Millisecond
	go func() {
		err := v.Watch(ctx, debounce, func() {
			if _, err := app.Rebuild(ctx); err != nil {
				logger.Error("Failed to rebuild graph after vault change", "err", err)
			}
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("Vault watcher stopped", "err", err)
		}
	}()

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func familySynonymsFromEnv() []string {
	raw := util.GetEnv("FAMILY_SYNONYMS")
	if raw == "" {
		return nil
	}
	var synonyms []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			synonyms = append(synonyms, s)
		}
	}
	return synonyms
}
