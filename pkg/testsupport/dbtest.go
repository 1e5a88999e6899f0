package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-localize/locales"
)

var dbSequence atomic.Int64

// NewBunSQLiteDB opens a throwaway in-memory sqlite database wrapped in bun.
// Every call gets its own database so parallel tests never observe each
// other's rows; the handle closes with the test.
func NewBunSQLiteDB(tb testing.TB) *bun.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:testsupport_%d?mode=memory&cache=shared&_fk=1", dbSequence.Add(1))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		tb.Fatalf("open sqlite db: %v", err)
	}

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = bunDB.Close()
	})
	return bunDB
}

// CreateLocaleSchema creates the locale registry table.
func CreateLocaleSchema(tb testing.TB, db *bun.DB) {
	tb.Helper()

	_, err := db.NewCreateTable().
		Model((*locales.Locale)(nil)).
		IfNotExists().
		Exec(context.Background())
	if err != nil {
		tb.Fatalf("create locales table: %v", err)
	}
}
