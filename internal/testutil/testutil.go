// Package testutil provides shared test helpers for setting up task stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/BasaniKavya/todo-app/internal/idgen"
	"github.com/BasaniKavya/todo-app/internal/storage"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
)

// TestStore creates a file-backed task store in a temp directory that is
// automatically cleaned up.
func TestStore(t *testing.T) (*taskstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	provider, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	store, err := taskstore.New(provider, idgen.New())
	if err != nil {
		t.Fatal(err)
	}
	return store, path
}

// TestSQLiteStore creates a SQLite-backed task store that is cleaned up
// with the test.
func TestSQLiteStore(t *testing.T) *taskstore.Store {
	t.Helper()
	provider, err := storage.NewSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { provider.Close() })
	store, err := taskstore.New(provider, idgen.New())
	if err != nil {
		t.Fatal(err)
	}
	return store
}
