// Package store provides SQLite persistence for the planner: schema
// migrations and typed queries over the five entity tables.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")

// dsnOptions configures every pooled connection, not just the first:
// immediate write transactions, WAL journaling, a 5s busy timeout,
// NORMAL sync, and foreign key enforcement.
const dsnOptions = "?_txlock=immediate" +
	"&_journal_mode=WAL" +
	"&_busy_timeout=5000" +
	"&_synchronous=NORMAL" +
	"&_foreign_keys=on"

// Open opens a SQLite database at path and configures it for the
// app's access pattern.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate runs all pending database migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
