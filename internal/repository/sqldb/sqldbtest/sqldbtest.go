// Package sqldbtest opens throwaway SQLite databases for tests.
package sqldbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/andresuchdata/vaxstock/backend-go/internal/repository/sqldb"
)

// New returns a migrated in-memory database private to the test.
func New(tb testing.TB) *sqldb.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := sqldb.Open(context.Background(), "sqlite3", dsn)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { db.Close() })
	return db
}
