package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/ai-mall/backend/internal/store"
	"github.com/ai-mall/backend/internal/store/storetest"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "aimall.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	return s
}

func TestSqliteStoreConformance(t *testing.T) {
	storetest.Run(t, newTestStore)
}
