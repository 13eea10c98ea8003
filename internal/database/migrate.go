package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// Oracle has no IF NOT EXISTS for these objects, so re-runs surface these codes.
var ignorableOracleErrors = []string{
	"ORA-00955", // name is already used by an existing object
	"ORA-01408", // such column list already indexed
}

// RunMigrations applies the embedded schema for the given driver.
func RunMigrations(ctx context.Context, db *sqlx.DB, driver string, logger *zap.Logger) error {
	switch driver {
	case "postgres":
		return runPostgresMigrations(db.DB, logger)
	case "oracle":
		return runScriptMigrations(ctx, db.DB, migrationsFS, "migrations/oracle", logger)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func runPostgresMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("could not read migration version: %w", err)
	}
	logger.Info("Migrations completed successfully", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// runScriptMigrations executes every *.up.sql file under dir in name order,
// one statement at a time.
func runScriptMigrations(ctx context.Context, db execer, fsys fs.FS, dir string, logger *zap.Logger) error {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".up.sql") {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file.Name(), err)
		}

		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				if isIgnorableOracleError(err) {
					logger.Debug("Skipping already applied statement", zap.String("file", file.Name()), zap.Error(err))
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", file.Name(), err)
			}
		}

		logger.Info("Executed migration", zap.String("file", file.Name()))
	}

	logger.Info("Migrations completed successfully")
	return nil
}

func splitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func isIgnorableOracleError(err error) bool {
	msg := err.Error()
	for _, code := range ignorableOracleErrors {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}
