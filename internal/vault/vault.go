// Package vault reads and writes the character notes of a writing project:
// a directory of markdown files, one per character, each with YAML front
// matter and a relationships section of "Role: [[Target]]" lines.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/inkforge/castline/pkg/common"
	"github.com/inkforge/castline/pkg/logger"
)

// ErrNotFound is returned when an id names no note in the vault.
var ErrNotFound = errors.New("character note not found")

// Vault is a handle on one character-notes directory. Load produces
// immutable record snapshots; AppendRelationship mutates a single note.
type Vault struct {
	dir      string
	parallel int

	mu    sync.RWMutex
	paths map[string]string // record id -> absolute file path
}

// New creates a Vault over dir. parallel bounds concurrent note parsing
// during Load; values below 1 fall back to 4.
func New(dir string, parallel int) *Vault {
	if parallel < 1 {
		parallel = 4
	}
	return &Vault{
		dir:      dir,
		parallel: parallel,
		paths:    make(map[string]string),
	}
}

// Dir returns the vault directory.
func (v *Vault) Dir() string {
	return v.dir
}

// Load parses every markdown note into a CharacterRecord snapshot, sorted
// by id. Notes that fail to parse are skipped with a warning; they are a
// user-content problem, not a fatal one.
func (v *Vault) Load(ctx context.Context) ([]common.CharacterRecord, error) {
	var files []string
	err := filepath.WalkDir(v.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != v.dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault %s: %w", v.dir, err)
	}
	sort.Strings(files)

	records := make([]common.CharacterRecord, 0, len(files))
	paths := make(map[string]string, len(files))
	mutex := sync.Mutex{}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(v.parallel)
	for _, file := range files {
		f := file
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
			}

			content, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("failed to read note %s: %w", f, err)
			}

			id := noteID(f)
			record, err := ParseCharacter(id, content)
			if err != nil {
				logger.Warn("[Vault] Skipping unparsable note", "path", f, "err", err)
				return nil
			}

			mutex.Lock()
			defer mutex.Unlock()
			if existing, ok := paths[id]; ok {
				logger.Warn("[Vault] Duplicate note id", "id", id, "kept", existing, "skipped", f)
				return nil
			}
			paths[id] = f
			records = append(records, record)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	v.mu.Lock()
	v.paths = paths
	v.mu.Unlock()

	return records, nil
}

// Path returns the file path of the note with the given id, as of the last
// Load.
func (v *Vault) Path(id string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	path, ok := v.paths[id]
	return path, ok
}

func noteID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
