package ds

import "time"

// Профиль пользователя (один-к-одному с User). Создаётся обработчиком
// регистрации сразу после создания пользователя
type UserProfile struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex"`
	Phone     string    `gorm:"type:varchar(20)"`
	Bio       string    `gorm:"type:text"`
	Avatar    *string   `gorm:"type:varchar(255)"` // имя объекта в MinIO
	CityID    *uint     `gorm:"default:null"`
	CreatedAt time.Time `gorm:"not null"`

	User User  `gorm:"foreignKey:UserID"`
	City *City `gorm:"foreignKey:CityID"`
}
