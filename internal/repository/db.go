package repository

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// NewDB creates a connection pool for the given driver ("pgx" or "mysql").
func NewDB(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverPostgres && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed, continuing", "driver", driver, "error", err)
	}

	return db, nil
}

// mysqlDSN forces DATETIME columns to scan into time.Time in UTC, whatever
// the configured DSN says.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
