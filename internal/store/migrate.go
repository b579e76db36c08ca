package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/gitpulse/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult describes what a migration run did.
type MigrationResult struct {
	From    uint
	To      uint
	Changed bool
}

// Migrate runs database migrations for the store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	m, err := newMigrator(backend, connStr)
	if err != nil {
		return MigrationResult{}, err
	}
	defer func() { _, _ = m.Close() }()

	// Get current version
	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return MigrationResult{}, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return MigrationResult{From: currentVersion, To: currentVersion}, nil
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("failed to migrate from version %d: %w", currentVersion, err)
	}

	newVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return MigrationResult{From: currentVersion, To: newVersion, Changed: true}, nil
}

// SchemaVersion reports the applied migration version and dirty flag.
func SchemaVersion(backend schema.DatabaseBackend, connStr string) (uint, bool, error) {
	m, err := newMigrator(backend, connStr)
	if err != nil {
		return 0, false, err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// LatestSchemaVersion returns the highest migration version embedded for a backend.
func LatestSchemaVersion(backend schema.DatabaseBackend) (uint, error) {
	dir := migrationDir(backend)
	if dir == "" {
		return 0, fmt.Errorf("unsupported backend %q", backend)
	}
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return 0, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	defer func() { _ = src.Close() }()

	version, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("no migrations for %s: %w", backend, err)
	}
	for {
		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			return version, nil
		}
		if err != nil {
			return 0, err
		}
		version = next
	}
}

func migrationDir(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.SQLiteBackend:
		return "migrations/sqlite"
	case schema.MySQLBackend:
		return "migrations/mysql"
	case schema.PostgreSQLBackend:
		return "migrations/postgres"
	}
	return ""
}

// newMigrator opens a dedicated connection and wires it to the embedded migrations
// of the backend. Closing the migrator closes the connection.
func newMigrator(backend schema.DatabaseBackend, connStr string) (*migrate.Migrate, error) {
	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return nil, err
	}
	dir := migrationDir(backend)
	switch backend {
	case schema.MySQLBackend:
		// migrations hold several statements per file
		cfg, err := gomysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		cfg.MultiStatements = true
		dsn = cfg.FormatDSN()
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w. %s", err, connectionHint(backend))
	}

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "gitpulse", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
