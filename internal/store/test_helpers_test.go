package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/woql/internal/testutil"
	"github.com/roach88/woql/woql"
)

// createTestStore creates a new store in a temp dir with sequential ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequenceIDs("query")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustQuery finishes b or fails the test.
func mustQuery(t *testing.T, b *woql.Builder) *woql.Query {
	t.Helper()
	q, err := b.Query()
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	return q
}
