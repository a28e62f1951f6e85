package testutil

import (
	"testing"

	"fv-go/internal/fv"
	"fv-go/internal/store"
)

// NewTestStore creates a new in-memory SQLite store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) fv.Store {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	if err := s.ApplySchema(); err != nil {
		s.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}
