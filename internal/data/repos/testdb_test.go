package repos

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

// testDB opens a private in-memory sqlite database with the full schema.
// The pool is pinned to one connection so every query sees the same memory
// database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := gdb.AutoMigrate(
		&domain.PatentFiling{},
		&domain.ChatbotConversation{},
		&domain.ChatbotKnowledgeBase{},
		&domain.DailyAnalytics{},
		&domain.CachedPatent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}
