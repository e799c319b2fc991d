// Package store persists the inverse-role dictionary in a local SQLite
// database so roles learned in one session survive into the next.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/pkg/inverse"
	"github.com/inkforge/castline/pkg/logger"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	// A single connection keeps :memory: databases alive and sidesteps
	// SQLite write contention.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database %q: %w", path, err)
	}

	logger.Info("[Store] Database initialized", "path", path)
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inverse_pairs (
		role TEXT NOT NULL,
		inverse TEXT NOT NULL,
		PRIMARY KEY (role, inverse)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LoadDictionary reads every stored pair into a fresh dictionary.
func (s *Store) LoadDictionary(ctx context.Context) (*inverse.Dictionary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT role, inverse FROM inverse_pairs")
	if err != nil {
		return nil, fmt.Errorf("load inverse pairs: %w", err)
	}
	defer rows.Close()

	dict := inverse.New()
	count := 0
	for rows.Next() {
		var role, inv string
		if err := rows.Scan(&role, &inv); err != nil {
			return nil, fmt.Errorf("scan inverse pair: %w", err)
		}
		dict.Learn(role, inv)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load inverse pairs: %w", err)
	}

	logger.Debug("[Store] Loaded inverse pairs", "count", count)
	return dict, nil
}

// SaveInversePair stores a and b as mutual inverses. Both directions are
// written so a plain lookup query never needs to check twice. Busy-database
// errors are retried a few times before giving up.
func (s *Store) SaveInversePair(ctx context.Context, a, b string) error {
	return util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		return s.saveInversePair(ctx, a, b)
	})
}

func (s *Store) saveInversePair(ctx context.Context, a, b string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save inverse pair: %w", err)
	}
	defer tx.Rollback()

	const stmt = "INSERT OR IGNORE INTO inverse_pairs (role, inverse) VALUES (?, ?)"
	if _, err := tx.ExecContext(ctx, stmt, a, b); err != nil {
		return fmt.Errorf("save inverse pair %q/%q: %w", a, b, err)
	}
	if _, err := tx.ExecContext(ctx, stmt, b, a); err != nil {
		return fmt.Errorf("save inverse pair %q/%q: %w", b, a, err)
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
