package middleware

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/inkforge/castline/internal/store"
	"github.com/inkforge/castline/internal/vault"
	"github.com/inkforge/castline/pkg/common"
	"github.com/inkforge/castline/pkg/doclock"
	"github.com/inkforge/castline/pkg/graph"
	"github.com/inkforge/castline/pkg/inverse"
	"github.com/inkforge/castline/pkg/logger"
)

// Snapshot is one consistent view of the vault: the parsed records and
// the graph built from them.
type Snapshot struct {
	Graph   *common.Graph
	Records []common.CharacterRecord
}

// App bundles the long-lived dependencies handlers need, plus the latest
// graph snapshot.
type App struct {
	Vault        *vault.Vault
	Store        *store.Store
	Dict         *inverse.Dictionary
	Builder      *graph.Builder
	Locks        *doclock.Registry
	MasterAPIKey string

	mu         sync.RWMutex
	snapshot   *Snapshot
	buildSeq   uint64
	appliedSeq uint64
}

// Rebuild loads the vault and builds a fresh graph. Concurrent rebuilds
// may overlap; only the most recently started one updates the cached
// snapshot, so a slow stale build never overwrites a newer result.
func (a *App) Rebuild(ctx context.Context) (*Snapshot, error) {
	a.mu.Lock()
	a.buildSeq++
	seq := a.buildSeq
	a.mu.Unlock()

	records, err := a.Vault.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, err := a.Builder.BuildGraph(records, a.Dict)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Graph: g, Records: records}

	a.mu.Lock()
	if seq > a.appliedSeq {
		a.appliedSeq = seq
		a.snapshot = snap
	} else {
		logger.Debug("[Server] Discarding superseded graph build")
	}
	a.mu.Unlock()
	return snap, nil
}

// Latest returns the cached snapshot, or nil before the first build.
func (a *App) Latest() *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Current returns the cached snapshot, building one first if none exists.
func (a *App) Current(ctx context.Context) (*Snapshot, error) {
	if snap := a.Latest(); snap != nil {
		return snap, nil
	}
	return a.Rebuild(ctx)
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
