package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teranos/energydb/db"
)

// CreateTestStore creates a migrated in-memory SQLite store.
// Automatically registers cleanup via t.Cleanup().
func CreateTestStore(t *testing.T) *db.Store {
	t.Helper()

	store, err := db.OpenWithMigrations("sqlite3", ":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// WriteCSV writes a CSV file with the standard header followed by rows and
// returns its path. Rows are written verbatim, one per line.
func WriteCSV(t *testing.T, rows ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "energy.csv")
	content := "Year,State,Energy Source,Megawatthours\n" + strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write CSV fixture: %v", err)
	}
	return path
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, store *db.Store, table string) int {
	t.Helper()

	var n int
	if err := store.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
