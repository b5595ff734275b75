package db

import (
	"path/filepath"
	"testing"
)

// SetupTestDB migrates a throwaway SQLite database under t.TempDir and
// returns a store connected to it.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "yuki.db")

	if err := RunMigrations(path); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	store, err := New(path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
