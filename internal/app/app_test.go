package app

import (
	"path/filepath"
	"testing"

	"github.com/cesargomez89/melodeck/internal/logger"
	"github.com/cesargomez89/melodeck/internal/store"
)

func setupTestDB(t *testing.T) (*store.DB, func()) {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test_app.db"), logger.Discard())
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		db.Close() //nolint:errcheck // test cleanup
	}
	return db, cleanup
}
