// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/configs"
	database "tamilvalam_backend/internals/databases"
)

// New returns a migrated SQLite database under t.TempDir(), closed on cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := configs.DBConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}
	log := zap.NewNop()
	db, err := database.Connect(cfg, log)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	if err := database.Migrate(db, cfg, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
