package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending up migration. It uses its own connection
// because closing the migrate instance closes the underlying *sql.DB.
func Migrate(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("opening migration database: %w", err)
	}

	var (
		target migratedb.Driver
		dir    string
	)

	switch driver {
	case DriverPostgres:
		dir = "migrations/postgres"
		target, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	case DriverSQLite:
		dir = "migrations/sqlite"
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		db.Close()
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	if err != nil {
		db.Close()
		return fmt.Errorf("creating %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		target.Close()
		return fmt.Errorf("creating iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		target.Close()
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
