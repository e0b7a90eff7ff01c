package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cesargomez89/melodeck/internal/constants"
	"github.com/cesargomez89/melodeck/internal/logger"
)

type DB struct {
	*sqlx.DB
}

// dsn appends connection pragmas so every pooled connection gets them.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, sep, constants.DefaultBusyTimeout.Milliseconds())
}

// Open connects to the SQLite file at path without touching the schema.
func Open(path string) (*DB, error) {
	db, err := sqlx.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &DB{db}, nil
}

// NewSQLiteDB opens the database and brings its schema up to date.
func NewSQLiteDB(path string, log *logger.Logger) (*DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	if err := NewMigrator(db, log).Migrate(context.Background()); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, err
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// RunInTx runs fn inside a transaction. Any error from fn rolls it back.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
