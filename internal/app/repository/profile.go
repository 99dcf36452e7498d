package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
)

// Методы для профилей пользователей

// CreateProfile создаёт пустой профиль. Вызывается обработчиком
// регистрации вторым шагом после создания пользователя
func (r *Repository) CreateProfile(userID uint) (*ds.UserProfile, error) {
	profile := ds.UserProfile{
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	err := r.db.Create(&profile).Error
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *Repository) GetProfileByUserID(userID uint) (*ds.UserProfile, error) {
	var profile ds.UserProfile
	err := r.db.Preload("City").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile частично обновляет профиль: nil-поля не трогаются
func (r *Repository) UpdateProfile(userID uint, phone, bio *string, cityID *uint) (*ds.UserProfile, error) {
	if _, err := r.GetProfileByUserID(userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if cityID != nil {
		if _, err := r.GetCityByID(*cityID); err != nil {
			return nil, err
		}
		updates["city_id"] = *cityID
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if bio != nil {
		updates["bio"] = *bio
	}

	if len(updates) > 0 {
		err := r.db.Model(&ds.UserProfile{}).Where("user_id = ?", userID).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}

	return r.GetProfileByUserID(userID)
}

// UpdateProfileAvatar сохраняет имя объекта аватарки в MinIO
func (r *Repository) UpdateProfileAvatar(userID uint, objectName string) error {
	result := r.db.Model(&ds.UserProfile{}).Where("user_id = ?", userID).Update("avatar", objectName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
