package repository

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// schemaFiles maps a driver name to its dialect's schema.
var schemaFiles = map[string]string{
	DriverPostgres: "schema/postgres.sql",
	DriverMySQL:    "schema/mysql.sql",
}

// Migrate applies the embedded schema for the database's driver. Every
// statement is idempotent, so running it against an existing database is safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements, err := schemaStatements(db.DriverName())
	if err != nil {
		return err
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}

	slog.Info("schema applied", "driver", db.DriverName(), "statements", len(statements))
	return nil
}

// schemaStatements splits the dialect schema into single statements; the
// MySQL driver rejects multi-statement Exec calls by default.
func schemaStatements(driver string) ([]string, error) {
	name, ok := schemaFiles[driver]
	if !ok {
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}

	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var statements []string
	for _, part := range strings.Split(string(raw), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}
