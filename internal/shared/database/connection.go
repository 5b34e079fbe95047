package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"risiko-server/internal/shared/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DB struct {
	*sql.DB
	Driver string
}

type Tx struct {
	*sql.Tx
}

var placeholderPattern = regexp.MustCompile(`\$\d+`)

// Rebind rewrites $N placeholders for drivers that expect positional ?
func (db *DB) Rebind(query string) string {
	if db.Driver != DriverSQLite {
		return query
	}
	return placeholderPattern.ReplaceAllString(query, "?")
}

func (db *DB) BeginTxContext(ctx context.Context) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx}, nil
}

// Open opens and pings a database without touching the global configuration
func Open(driver, dsn string) (*DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite allows one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			slog.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, Driver: driver}, nil
}

func Connect() (*DB, error) {
	cfg := config.GlobalConfig
	logger := slog.With("component", "database", "operation", "connect", "driver", cfg.Database.Driver)
	logger.Debug("Initializing database connection")

	dsn := cfg.Database.SQLitePath
	if cfg.Database.Driver == DriverPostgres {
		dsn = cfg.ConnectionString()
		logger.Info("Connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"user", cfg.Database.User,
			"database", cfg.Database.Name,
			"sslmode", cfg.Database.SSLMode,
			"max_open_conns", cfg.Database.MaxOpenConns,
			"max_idle_conns", cfg.Database.MaxIdleConns,
		)
	} else {
		logger.Info("Opening sqlite database", "path", cfg.Database.SQLitePath)
	}

	db, err := Open(cfg.Database.Driver, dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, err
	}

	if db.Driver == DriverPostgres {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	logger.Info("Database connection established successfully")
	return db, nil
}
