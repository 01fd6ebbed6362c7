// Package dbtest provides throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"aptigenius-backend/internal/config"
	"aptigenius-backend/internal/db"
)

// New opens a migrated in-memory SQLite database that is closed when t ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
		// every connection to :memory: is a fresh database
		Pool: config.DBPoolConfig{MaxOpenConns: 1},
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}
