package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx migration driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // file:// migration source
)

// RunMigrations applies all pending migrations from sourceURL (a
// file:// path) against the database at dsn. An already up-to-date
// schema is not an error.
func RunMigrations(dsn string, sourceURL string) error {
	// The pgx/v5 migration driver registers itself under its own scheme.
	dsn = strings.Replace(dsn, "postgres://", "pgx5://", 1)

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	return nil
}
