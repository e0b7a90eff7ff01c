package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/melodeck/internal/constants"
	"github.com/cesargomez89/melodeck/internal/logger"
)

var (
	identPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	colTypePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 ()]*$`)
)

// Migration is a one-shot schema change recorded in schema_migrations.
type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, tx *sqlx.Tx) error
}

// Migrator brings a database file up to the current schema. Migrate is safe
// to call on every startup.
type Migrator struct {
	db         *DB
	log        *logger.Logger
	migrations []Migration
}

func NewMigrator(db *DB, log *logger.Logger) *Migrator {
	if log == nil {
		log = logger.Default()
	}
	return &Migrator{
		db:  db,
		log: log.WithComponent("migrator"),
		migrations: []Migration{
			{Version: 1, Description: "rebuild playlists table", Up: rebuildPlaylists},
		},
	}
}

func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.CreateTables(ctx); err != nil {
		return err
	}

	added, err := m.AddColumnIfMissing(ctx, constants.MusicTable, "audio_path", "TEXT")
	if err != nil {
		return err
	}
	if added {
		m.log.Info("Added column", "table", constants.MusicTable, "column", "audio_path")
	}

	applied, err := m.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, mig := range m.migrations {
		if done[mig.Version] {
			continue
		}

		m.log.Info("Applying migration", "version", mig.Version, "description", mig.Description)
		err := m.db.RunInTx(ctx, func(tx *sqlx.Tx) error {
			if err := mig.Up(ctx, tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
				mig.Version, mig.Description)
			return err
		})
		if err != nil {
			m.log.Error("Migration failed", "version", mig.Version, "error", err)
			return fmt.Errorf("failed to apply migration %d: %w", mig.Version, err)
		}
	}

	return nil
}

// CreateTables creates any missing table. Existing tables are left untouched.
func (m *Migrator) CreateTables(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// AddColumnIfMissing adds column to table. It reports false without error
// when the column already exists.
func (m *Migrator) AddColumnIfMissing(ctx context.Context, table, column, colType string) (bool, error) {
	if !identPattern.MatchString(table) || !identPattern.MatchString(column) {
		return false, fmt.Errorf("invalid identifier %q.%q", table, column)
	}
	if !colTypePattern.MatchString(colType) {
		return false, fmt.Errorf("invalid column type %q", colType)
	}

	query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, colType)
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		if strings.Contains(err.Error(), "duplicate column name") {
			return false, nil
		}
		return false, fmt.Errorf("failed to add %s to %s: %w", column, table, err)
	}
	return true, nil
}

// AppliedVersions lists recorded migration versions in ascending order.
func (m *Migrator) AppliedVersions(ctx context.Context) ([]int, error) {
	var versions []int
	err := m.db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	return versions, nil
}

type columnInfo struct {
	CID       int     `db:"cid"`
	Name      string  `db:"name"`
	Type      string  `db:"type"`
	NotNull   int     `db:"notnull"`
	DfltValue *string `db:"dflt_value"`
	PK        int     `db:"pk"`
}

type legacyPlaylist struct {
	ID          *int64  `db:"id"`
	Name        *string `db:"name"`
	Description *string `db:"description"`
	UserID      *int64  `db:"user_id"`
}

// rebuildPlaylists recreates the playlists table with the current definition,
// keeping id, name, description and user_id. created_at is not carried over.
func rebuildPlaylists(ctx context.Context, tx *sqlx.Tx) error {
	var cols []columnInfo
	if err := tx.SelectContext(ctx, &cols, `PRAGMA table_info(playlists)`); err != nil {
		return fmt.Errorf("failed to inspect playlists: %w", err)
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c.Name] = true
	}

	var backup []legacyPlaylist
	if len(cols) > 0 {
		fields := make([]string, 0, 4)
		for _, name := range []string{"id", "name", "description", "user_id"} {
			if present[name] {
				fields = append(fields, name)
			} else {
				fields = append(fields, "NULL AS "+name)
			}
		}
		query := "SELECT " + strings.Join(fields, ", ") + " FROM playlists"
		if err := tx.SelectContext(ctx, &backup, query); err != nil {
			return fmt.Errorf("failed to back up playlists: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS playlists`); err != nil {
		return fmt.Errorf("failed to drop playlists: %w", err)
	}
	if _, err := tx.ExecContext(ctx, playlistsTable); err != nil {
		return fmt.Errorf("failed to create playlists: %w", err)
	}

	for _, p := range backup {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO playlists (id, name, description, user_id) VALUES (?, ?, ?, ?)`,
			p.ID, p.Name, p.Description, p.UserID)
		if err != nil {
			return fmt.Errorf("failed to restore playlist: %w", err)
		}
	}

	return nil
}
