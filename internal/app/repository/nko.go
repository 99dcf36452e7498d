package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
)

// Методы для работы с НКО

// NKOInput — поля подачи/редактирования НКО. Координаты необязательны:
// при создании без них берутся координаты города, при редактировании
// старые координаты сохраняются
type NKOInput struct {
	Name        string
	CategoryID  uint
	Description string
	Address     string
	Phone       string
	Website     string
	VKLink      string
	CityID      uint
	Latitude    *float64
	Longitude   *float64
}

// CreateNKO создаёт НКО от имени пользователя в статусе "на модерации".
// Одна НКО на аккаунт: проверка здесь даёт понятную ошибку, а уникальный
// индекс по created_by_id закрывает гонку двух одновременных подач
func (r *Repository) CreateNKO(userID uint, in NKOInput) (*ds.NKO, error) {
	existing, err := r.GetNKOByCreator(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNKOAlreadyExists
	}

	if _, err := r.GetCategoryByID(in.CategoryID); err != nil {
		return nil, err
	}
	city, err := r.GetCityByID(in.CityID)
	if err != nil {
		return nil, err
	}

	nko := ds.NKO{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Website:     in.Website,
		VKLink:      in.VKLink,
		CityID:      in.CityID,
		CreatedByID: userID,
		IsApproved:  false,
		CreatedAt:   time.Now(),
	}

	if in.Latitude != nil && in.Longitude != nil {
		nko.Latitude = *in.Latitude
		nko.Longitude = *in.Longitude
	} else {
		nko.Latitude = city.Latitude
		nko.Longitude = city.Longitude
	}

	err = r.db.Create(&nko).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNKOAlreadyExists
		}
		return nil, err
	}

	return &nko, nil
}

// UpdateNKO применяет правки создателя и всегда сбрасывает флаг одобрения:
// отредактированная НКО уходит на повторную модерацию
func (r *Repository) UpdateNKO(userID, nkoID uint, in NKOInput) (*ds.NKO, error) {
	var nko ds.NKO
	err := r.db.Where("id = ? AND created_by_id = ?", nkoID, userID).First(&nko).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNKONotFound
		}
		return nil, err
	}

	if _, err := r.GetCategoryByID(in.CategoryID); err != nil {
		return nil, err
	}
	if _, err := r.GetCityByID(in.CityID); err != nil {
		return nil, err
	}

	nko.Name = in.Name
	nko.CategoryID = in.CategoryID
	nko.Description = in.Description
	nko.Address = in.Address
	nko.Phone = in.Phone
	nko.Website = in.Website
	nko.VKLink = in.VKLink
	nko.CityID = in.CityID
	nko.IsApproved = false

	// координаты меняются только когда заданы обе
	if in.Latitude != nil && in.Longitude != nil {
		nko.Latitude = *in.Latitude
		nko.Longitude = *in.Longitude
	}

	err = r.db.Save(&nko).Error
	if err != nil {
		return nil, err
	}

	return &nko, nil
}

// GetNKOByCreator возвращает НКО пользователя или nil, если её нет
func (r *Repository) GetNKOByCreator(userID uint) (*ds.NKO, error) {
	var nko ds.NKO
	err := r.db.Preload("Category").Preload("City").
		Where("created_by_id = ?", userID).First(&nko).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &nko, nil
}

func (r *Repository) GetNKOByID(id uint) (*ds.NKO, error) {
	var nko ds.NKO
	err := r.db.Preload("Category").Preload("City").Preload("CreatedBy").
		First(&nko, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNKONotFound
		}
		return nil, err
	}
	return &nko, nil
}

// listNKOs возвращает НКО по условию вместе со справочниками для отображения.
// Категория и город читаются на момент запроса, ничего не денормализуется
func (r *Repository) listNKOs(query interface{}, args ...interface{}) ([]ds.NKO, error) {
	var nkos []ds.NKO
	err := r.db.Preload("Category").Preload("City").Preload("CreatedBy").
		Where(query, args...).Order("created_at").Find(&nkos).Error
	return nkos, err
}

func (r *Repository) GetApprovedNKOs() ([]ds.NKO, error) {
	return r.listNKOs("is_approved = ?", true)
}

func (r *Repository) GetPendingNKOs() ([]ds.NKO, error) {
	return r.listNKOs("is_approved = ?", false)
}

// Несуществующий город даёт пустой список, а не ошибку
func (r *Repository) GetApprovedNKOsByCity(cityID uint) ([]ds.NKO, error) {
	return r.listNKOs("city_id = ? AND is_approved = ?", cityID, true)
}

func (r *Repository) GetApprovedNKOsByCategory(categoryID uint) ([]ds.NKO, error) {
	return r.listNKOs("category_id = ? AND is_approved = ?", categoryID, true)
}

// SetNKOApproval выставляет флаг одобрения. Переход идемпотентный,
// кроме флага никакого состояния модерации не хранится
func (r *Repository) SetNKOApproval(id uint, approved bool) (*ds.NKO, error) {
	nko, err := r.GetNKOByID(id)
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&ds.NKO{}).Where("id = ?", id).Update("is_approved", approved).Error
	if err != nil {
		return nil, err
	}

	nko.IsApproved = approved
	return nko, nil
}
