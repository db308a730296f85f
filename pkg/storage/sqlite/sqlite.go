package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/golang-migrate/migrate/v4"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/storage"
	"github.com/kasuboski/reelbox/pkg/storage/sqlite/schema/gen/model"
	"github.com/kasuboski/reelbox/pkg/storage/sqlite/schema/gen/table"
	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db       *sql.DB
	migrator *migrate.Migrate
}

// New opens the sqlite database at filePath and applies pending migrations
func New(ctx context.Context, filePath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}

	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	migrator, err := newMigrator(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db, migrator: migrator}
	if err := s.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Get returns the raw value stored under name
func (s *SQLite) Get(ctx context.Context, name string) ([]byte, error) {
	var row model.Collection
	stmt := table.Collection.
		SELECT(table.Collection.AllColumns).
		FROM(table.Collection).
		WHERE(table.Collection.Name.EQ(sqlite.String(name))).
		LIMIT(1)

	err := stmt.QueryContext(ctx, s.db, &row)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", name, err)
	}

	return []byte(row.Value), nil
}

// Put upserts every entry in a single transaction
func (s *SQLite) Put(ctx context.Context, entries ...storage.Entry) error {
	log := logger.FromCtx(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Debugw("failed to init transaction", "error", err)
		return err
	}

	now := time.Now().UTC()
	for _, e := range entries {
		stmt := table.Collection.
			INSERT(table.Collection.AllColumns).
			MODEL(model.Collection{Name: e.Name, Value: string(e.Value), UpdatedAt: now}).
			ON_CONFLICT(table.Collection.Name).
			DO_UPDATE(sqlite.SET(
				table.Collection.Value.SET(table.Collection.EXCLUDED.Value),
				table.Collection.UpdatedAt.SET(table.Collection.EXCLUDED.UpdatedAt),
			))

		if _, err := stmt.ExecContext(ctx, tx); err != nil {
			log.Debugw("failed to execute statement", "query", stmt.DebugSql(), "error", err)
			tx.Rollback()
			return fmt.Errorf("failed to put collection %s: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

// Delete removes the value stored under name. Deleting a missing name is not an error.
func (s *SQLite) Delete(ctx context.Context, name string) error {
	stmt := table.Collection.DELETE().WHERE(table.Collection.Name.EQ(sqlite.String(name)))
	_, err := stmt.ExecContext(ctx, s.db)
	if err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}

// List returns the stored names in ascending order
func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows := make([]model.Collection, 0)
	stmt := table.Collection.
		SELECT(table.Collection.AllColumns).
		FROM(table.Collection).
		ORDER_BY(table.Collection.Name.ASC())

	if err := stmt.QueryContext(ctx, s.db, &rows); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
