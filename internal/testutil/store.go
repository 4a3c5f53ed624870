package testutil

import (
	"path/filepath"
	"testing"

	"tt-go/internal/database"
	"tt-go/internal/track"
)

// NewTestStore creates a SQLite store backed by a temp file with
// migrations applied. The store is closed when the test completes.
func NewTestStore(t *testing.T) track.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tt.db")
	store, err := database.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
