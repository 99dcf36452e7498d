package repository

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
)

// Методы для справочников (города и категории НКО).
// Справочные данные заполняются через cmd/migrate, приложение их не удаляет

// Получить все города
func (r *Repository) GetAllCities() ([]ds.City, error) {
	var cities []ds.City
	err := r.db.Order("name").Find(&cities).Error
	return cities, err
}

func (r *Repository) GetCityByID(id uint) (*ds.City, error) {
	var city ds.City
	err := r.db.First(&city, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &city, nil
}

func (r *Repository) CreateCity(name, region string, latitude, longitude float64) (*ds.City, error) {
	city := ds.City{
		Name:      name,
		Region:    region,
		Latitude:  latitude,
		Longitude: longitude,
	}
	err := r.db.Create(&city).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// Получить все категории
func (r *Repository) GetAllCategories() ([]ds.NKOCategory, error) {
	var categories []ds.NKOCategory
	err := r.db.Order("name").Find(&categories).Error
	return categories, err
}

// Получить категорию по ID
func (r *Repository) GetCategoryByID(id uint) (*ds.NKOCategory, error) {
	// Используем курсор
	query := `SELECT id, name, color FROM nko_categories WHERE id = ?`
	row := r.db.Raw(query, id).Row()

	var category ds.NKOCategory
	err := row.Scan(&category.ID, &category.Name, &category.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *Repository) CreateCategory(name, color string) (*ds.NKOCategory, error) {
	category := ds.NKOCategory{
		Name:  name,
		Color: color,
	}
	err := r.db.Create(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategoryColor меняет цвет маркеров категории. НКО хранит только
// ссылку, поэтому новый цвет сразу виден во всех JSON-ответах
func (r *Repository) UpdateCategoryColor(id uint, color string) error {
	result := r.db.Model(&ds.NKOCategory{}).Where("id = ?", id).Update("color", color)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
