// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"repairdesk/internal/database"
	"repairdesk/internal/migrate"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var nameCleaner = strings.NewReplacer("/", "_", " ", "_", "#", "_")

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", nameCleaner.Replace(t.Name()))
	db, err := database.Connect(dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	db = db.Session(&gorm.Session{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})

	if err := migrate.Run(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	t.Cleanup(func() { database.Close(db, nil) })
	return db
}
