package ds

import "time"

// Таблица НКО. Координаты хранятся явно и не зависят от координат города.
// Уникальный индекс по created_by_id гарантирует одну НКО на аккаунт
// на уровне БД, а не только проверкой в коде.
type NKO struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(200);not null"`
	CategoryID  uint      `gorm:"not null"`
	Description string    `gorm:"type:text;not null"`
	Address     string    `gorm:"type:text"`
	Phone       string    `gorm:"type:varchar(20)"`
	Website     string    `gorm:"type:varchar(200)"`
	VKLink      string    `gorm:"type:varchar(200)"`
	CityID      uint      `gorm:"not null"`
	Latitude    float64   `gorm:"not null"`
	Longitude   float64   `gorm:"not null"`
	CreatedByID uint      `gorm:"not null;uniqueIndex"`
	IsApproved  bool      `gorm:"type:boolean;default:false;not null"`
	CreatedAt   time.Time `gorm:"not null"`

	Category  NKOCategory `gorm:"foreignKey:CategoryID"`
	City      City        `gorm:"foreignKey:CityID"`
	CreatedBy User        `gorm:"foreignKey:CreatedByID"`
}
