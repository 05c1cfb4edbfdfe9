// Package sqlitetest opens migrated in-memory databases for tests.
package sqlitetest

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pawnshop-ledger/internal/adapter/repository/gormstore"
)

// Open returns a fresh in-memory sqlite DB with the collections table.
// The pool is pinned to one connection so every query sees the same
// database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gormstore.Migrate(context.Background(), db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
