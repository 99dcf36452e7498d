package repository

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
)

// Ошибки уровня хранилища, которые обработчики транслируют в ответы
// пользователю. Всё остальное считается внутренней ошибкой
var (
	ErrNKOAlreadyExists = errors.New("у пользователя уже есть НКО")
	ErrNKONotFound      = errors.New("НКО не найдена")
	ErrCityNotFound     = errors.New("город не найден")
	ErrCategoryNotFound = errors.New("категория не найдена")
	ErrProfileNotFound  = errors.New("профиль не найден")
)

type Repository struct {
	db *gorm.DB
}

func New(dsnStr string) (*Repository, error) {
	// TranslateError переводит нарушение уникальных индексов в
	// gorm.ErrDuplicatedKey независимо от драйвера
	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return NewWithDB(db)
}

// NewWithDB оборачивает уже открытое соединение (используется в тестах)
func NewWithDB(db *gorm.DB) (*Repository, error) {
	// Автоматическая миграция всех таблиц
	err := db.AutoMigrate(
		&ds.User{},
		&ds.City{},
		&ds.NKOCategory{},
		&ds.NKO{},
		&ds.UserProfile{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}
