package testfixtures

import (
	"context"
	"testing"

	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/persistence/memory"
	"github.com/example/empmanager/internal/persistence/sqlite"
)

// StoreFactory opens an empty store and registers its cleanup with tb.
type StoreFactory func(tb testing.TB) persistence.Store

// Backends lists every store implementation by name so contract tests can
// run against all of them.
func Backends() map[string]StoreFactory {
	return map[string]StoreFactory{
		"memory": NewMemoryStore,
		"sqlite": NewSQLiteStore,
	}
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore(tb testing.TB) persistence.Store {
	tb.Helper()
	store := memory.New()
	tb.Cleanup(func() { _ = store.Close() })
	return store
}

// NewSQLiteStore returns an empty, migrated in-memory SQLite store. Each call
// gets a private database.
func NewSQLiteStore(tb testing.TB) persistence.Store {
	tb.Helper()

	store, err := sqlite.Open(":memory:")
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate sqlite store: %v", err)
	}
	return store
}

// NewSeededStore returns a memory store holding the seed collections.
func NewSeededStore(tb testing.TB) persistence.Store {
	tb.Helper()
	store := NewMemoryStore(tb)
	if err := persistence.Seed(context.Background(), store); err != nil {
		tb.Fatalf("failed to seed store: %v", err)
	}
	return store
}
