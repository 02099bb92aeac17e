package testsupport

import (
	"context"
	"database/sql"
	"testing"

	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open(store.DriverName, ":memory:")
}

// NewBunDB opens a private in-memory database with the full schema. A single
// connection keeps the memory database alive for the test's lifetime.
func NewBunDB(t testing.TB) *bun.DB {
	t.Helper()

	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	if err := store.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return db
}
