// Package migrations embeds the schema migrations and applies them with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Dialect is the goose dialect for the embedded migrations
const Dialect = "postgres"

var errNilDB = errors.New("db is nil")

func setup() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(Dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}
	return nil
}

// Migrate applies every pending migration
func Migrate(db *sql.DB) error {
	if db == nil {
		return errNilDB
	}
	if err := setup(); err != nil {
		return err
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// Rollback reverts the most recent migration
func Rollback(db *sql.DB) error {
	if db == nil {
		return errNilDB
	}
	if err := setup(); err != nil {
		return err
	}

	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("migration rollback error: %w", err)
	}

	return nil
}

// Status prints the applied state of every migration through the goose logger
func Status(db *sql.DB) error {
	if db == nil {
		return errNilDB
	}
	if err := setup(); err != nil {
		return err
	}

	if err := goose.Status(db, "."); err != nil {
		return fmt.Errorf("migration status error: %w", err)
	}

	return nil
}
