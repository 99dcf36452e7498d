package repository

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo поднимает репозиторий на sqlite в памяти.
// Имя БД уникально для каждого теста, чтобы тесты не делили состояние
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	dsnStr := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsnStr), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo, err := NewWithDB(db)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}

	return repo
}
