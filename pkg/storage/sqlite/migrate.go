package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/kasuboski/reelbox/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsTable = "schema_migrations"

// newMigrator binds the embedded collection migrations to db. The returned
// instance must not be closed since that closes db as well.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	drv, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: migrationsTable,
		NoTxWrap:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, "sqlite3", drv)
}

// RunMigrations brings the collection table up to the newest embedded schema
func (s *SQLite) RunMigrations(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	from, _, err := s.GetMigrationVersion()
	if err != nil {
		return err
	}

	if err := s.migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Errorw("failed to run migrations", "from", from, "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, _, err := s.GetMigrationVersion()
	if err != nil {
		return err
	}
	if to != from {
		log.Infow("migrated collection schema", "from", from, "to", to)
	}
	return nil
}

// GetMigrationVersion reports the applied schema version, 0 for a fresh database
func (s *SQLite) GetMigrationVersion() (version uint, dirty bool, err error) {
	version, dirty, err = s.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
