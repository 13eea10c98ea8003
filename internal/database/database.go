package database

import (
	"fmt"

	"flash-me/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver, registered as "oracle"
	"go.uber.org/zap"
)

func init() {
	// go-ora takes positional :N placeholders; sqlx has no default bind type for it.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// DriverName maps the configured database onto its database/sql driver name.
func DriverName(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "pgx", nil
	case "oracle":
		return "oracle", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// NewSQLXDB opens and pings a connection pool for the configured database.
func NewSQLXDB(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DB.Driver, err)
	}

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	logger.Info("Connected to database",
		zap.String("driver", cfg.DB.Driver),
		zap.String("host", cfg.DB.Host),
		zap.String("database", cfg.DB.DBName))
	return db, nil
}
